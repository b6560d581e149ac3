package studentRoutes

import (
	controllers "protrack/controllers/student"
	"protrack/middleware"
	validators "protrack/validators/student"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentRoutes sets up student management routes
func SetupStudentRoutes(app *fiber.App) {
	studentGroup := app.Group("/student")

	studentGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "SUPER-ADMIN"), validators.CreateStudent(), controllers.CreateStudent)
	studentGroup.Get("/list", middleware.JWTMiddleware, validators.StudentList(), controllers.ListStudents)
	studentGroup.Post("/:id/enroll/:semesterId", middleware.JWTMiddleware, middleware.RequireRole("ADMIN", "SUPER-ADMIN"), validators.EnrollInSemester(), controllers.EnrollInSemester)
}

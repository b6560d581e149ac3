package academicRoutes

import (
	controllers "protrack/controllers/academic"
	"protrack/middleware"
	validators "protrack/validators/academic"

	"github.com/gofiber/fiber/v2"
)

// SetupAcademicRoutes sets up major/semester/course directory routes
func SetupAcademicRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole("ADMIN", "SUPER-ADMIN")

	majorGroup := app.Group("/major")
	majorGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CreateMajor(), controllers.CreateMajor)
	majorGroup.Get("/list", middleware.JWTMiddleware, controllers.ListMajors)
	majorGroup.Get("/:id/semesters", middleware.JWTMiddleware, validators.MajorID(), controllers.ListSemesters)

	semesterGroup := app.Group("/semester")
	semesterGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CreateSemester(), controllers.CreateSemester)
	semesterGroup.Get("/:id/courses", middleware.JWTMiddleware, validators.SemesterID(), controllers.ListCourses)
	semesterGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, validators.SemesterID(), controllers.DeleteSemester)

	courseGroup := app.Group("/course")
	courseGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, validators.CourseID(), controllers.DeleteCourse)
}

package progressRoutes

import (
	controllers "protrack/controllers/progress"
	"protrack/middleware"
	validators "protrack/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up single-record progress routes
func SetupProgressRoutes(app *fiber.App) {
	staff := middleware.RequireRole("STAFF", "ADMIN", "SUPER-ADMIN")
	adminOnly := middleware.RequireRole("ADMIN", "SUPER-ADMIN")

	progressGroup := app.Group("/progress")

	// Queries
	progressGroup.Get("/student/:studentId", middleware.JWTMiddleware, validators.StudentID(), controllers.GetStudentProgress)
	progressGroup.Get("/logs/:studentId", middleware.JWTMiddleware, validators.StudentID(), controllers.ListTrackingLogs)
	progressGroup.Get("/:studentId/:courseId", middleware.JWTMiddleware, validators.StudentCoursePair(), controllers.GetProgress)

	// Counter and link updates
	progressGroup.Patch("/:id/sessions", middleware.JWTMiddleware, staff, validators.ProgressID(), validators.UpdateCount(), controllers.UpdateSessions)
	progressGroup.Patch("/:id/projects", middleware.JWTMiddleware, staff, validators.ProgressID(), validators.UpdateCount(), controllers.UpdateProjects)
	progressGroup.Post("/:id/links", middleware.JWTMiddleware, staff, validators.ProgressID(), validators.ProjectLink(), controllers.AddProjectLink)
	progressGroup.Delete("/:id/links", middleware.JWTMiddleware, staff, validators.ProgressID(), validators.ProjectLink(), controllers.RemoveProjectLink)

	// Transitions
	progressGroup.Post("/:id/submit", middleware.JWTMiddleware, staff, validators.ProgressID(), controllers.SubmitForApproval)
	progressGroup.Post("/:id/approve", middleware.JWTMiddleware, adminOnly, validators.ProgressID(), controllers.Approve)
	progressGroup.Post("/:id/reject", middleware.JWTMiddleware, adminOnly, validators.ProgressID(), validators.Reject(), controllers.Reject)
	progressGroup.Post("/:id/unlock", middleware.JWTMiddleware, adminOnly, validators.ProgressID(), validators.Unlock(), controllers.Unlock)
}

package quicktrackRoutes

import (
	controllers "protrack/controllers/quicktrack"
	"protrack/middleware"
	validators "protrack/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupQuickTrackRoutes sets up the bulk approval workflow routes
func SetupQuickTrackRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole("ADMIN", "SUPER-ADMIN")

	group := app.Group("/quicktrack", middleware.JWTMiddleware, adminOnly)

	group.Get("/pending", validators.CourseFilter(), controllers.ListPending)
	group.Post("/selection", validators.Selection(), controllers.UpdateSelection)
	group.Post("/run", controllers.StartRun)
	group.Get("/run/:id", controllers.GetRun)
	group.Post("/run/:id/cancel", controllers.CancelRun)
	group.Post("/run/:id/retry-failed", controllers.RetryFailed)
}

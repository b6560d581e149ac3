package authRoutes

import (
	controllers "protrack/controllers/auth"
	validators "protrack/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up staff authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), controllers.Signup)
	authGroup.Post("/login", validators.Login(), controllers.Login)
}

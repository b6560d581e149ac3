package main

import (
	"log"

	"protrack/config"
	"protrack/database"
	academicRoutes "protrack/routers/academicRoutes"
	authRoutes "protrack/routers/authRoutes"
	progressRoutes "protrack/routers/progressRoutes"
	quicktrackRoutes "protrack/routers/quicktrackRoutes"
	studentRoutes "protrack/routers/studentRoutes"
	"protrack/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	academicRoutes.SetupAcademicRoutes(app)
	studentRoutes.SetupStudentRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	quicktrackRoutes.SetupQuickTrackRoutes(app)

	// Daily digest of submissions stuck in the approval queue
	utils.StartReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

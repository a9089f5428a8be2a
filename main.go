package main

import (
	"log"

	"noc/config"
	"noc/database"
	adminRoutes "noc/routers/adminRoutes"
	applicationRoutes "noc/routers/applicationRoutes"
	authRoutes "noc/routers/authRoutes"
	reviewRoutes "noc/routers/reviewRoutes"
	"noc/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024, // two 5MB PDFs plus form fields
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	applicationRoutes.SetupApplicationRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	utils.StartScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

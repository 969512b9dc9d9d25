package main

import (
	"log"

	"eduplatform/config"
	"eduplatform/database"
	"eduplatform/middleware"
	"eduplatform/routes"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// External services, constructed once and injected
	mailer := utils.NewSMTPMailer(cfg)
	uploader, err := utils.NewOSSUploader(cfg)
	if err != nil {
		log.Fatalf("Error initializing object storage: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.ClientOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, mailer, uploader)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

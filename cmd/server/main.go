package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Mhmdshannon/Spark/internal/config"
	"github.com/Mhmdshannon/Spark/internal/routes"
	"github.com/Mhmdshannon/Spark/internal/services"
	"github.com/Mhmdshannon/Spark/internal/session"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Supabase
	db := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, cfg.SupabaseBucket)

	// Every sign-in flowing through this client triggers a background
	// profile repair via the session store.
	schemaService := services.NewSchemaService(db)
	profileService := services.NewProfileService(db, schemaService)
	synchronizer := services.NewProfileSynchronizer(profileService)
	store := session.NewStore(db.Auth(), synchronizer)
	store.Start(context.Background(), "")
	defer store.Close()

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, db); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 4. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

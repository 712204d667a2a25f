package main

import (
	"context"
	"flag"
	"log"

	"github.com/Mhmdshannon/Spark/internal/config"
	"github.com/Mhmdshannon/Spark/internal/services"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

// Bootstraps the backend from the command line: creates missing tables and
// optionally promotes the configured admin account. Equivalent to calling the
// setup endpoints, without needing the server up.
func main() {
	adminEmail := flag.String("admin", "", "email to promote to admin (falls back to ADMIN_EMAIL)")
	skipSchema := flag.Bool("skip-schema", false, "skip table creation")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	schemaService := services.NewSchemaService(db)
	profileService := services.NewProfileService(db, schemaService)
	adminService := services.NewAdminService(db, profileService, schemaService)

	ctx := context.Background()

	if result := adminService.TestConnection(ctx); !result.Success {
		log.Fatalf("Connection check failed: %s", result.Message)
	}
	log.Println("Backend reachable")

	if !*skipSchema {
		result := schemaService.InitializeDatabase(ctx)
		if !result.Success {
			log.Fatalf("Schema setup failed: %s", result.Message)
		}
		log.Println(result.Message)
	}

	email := *adminEmail
	if email == "" {
		email = cfg.AdminEmail
	}
	if email != "" {
		result := adminService.MakeUserAdmin(ctx, email)
		if !result.Success {
			log.Fatalf("Admin promotion failed: %s", result.Message)
		}
		log.Println(result.Message)
	}
}

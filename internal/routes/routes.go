package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/config"
	"github.com/Mhmdshannon/Spark/internal/handlers"
	"github.com/Mhmdshannon/Spark/internal/middleware"
	"github.com/Mhmdshannon/Spark/internal/services"
	"github.com/Mhmdshannon/Spark/internal/session"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *supabase.Client) error {
	schemaService := services.NewSchemaService(db)
	profileService := services.NewProfileService(db, schemaService)
	subscriptionService := services.NewSubscriptionService(db, schemaService)
	mealPlanService := services.NewMealPlanService(db, schemaService)
	coachNoteService := services.NewCoachNoteService(db, schemaService)
	progressService := services.NewProgressService(db, schemaService)
	workoutService := services.NewWorkoutService(db, schemaService)
	exerciseService := services.NewExerciseService(db, schemaService)
	adminService := services.NewAdminService(db, profileService, schemaService)

	resolver := session.NewResolver(db.Auth(), cfg.SupabaseJWTSecret)

	authHandler := handlers.NewAuthHandler(db.Auth(), resolver)
	profileHandler := handlers.NewProfileHandler(profileService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService)
	coachNoteHandler := handlers.NewCoachNoteHandler(coachNoteService)
	progressHandler := handlers.NewProgressHandler(progressService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	setupHandler := handlers.NewSetupHandler(schemaService, profileService, adminService, cfg.SetupKey)
	settingsHandler := handlers.NewSettingsHandler()

	app.Use(middleware.RouteGuard(resolver))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", middleware.AuthRequired(resolver), authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(resolver), authHandler.Me)

	settings := api.Group("/settings")
	settings.Get("/language", settingsHandler.GetLanguage)
	settings.Put("/language", settingsHandler.SetLanguage)

	setup := api.Group("/setup", setupHandler.RequireSetupKey)
	setup.Post("/init-db", setupHandler.InitDatabase)
	setup.Get("/test-db", setupHandler.TestDatabase)
	setup.Get("/test-connection", setupHandler.TestConnection)
	setup.Post("/make-admin", setupHandler.MakeAdmin)

	authProtected := api.Group("/v1", middleware.AuthRequired(resolver))

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetMyProfile)
	profile.Put("", profileHandler.UpdateMyProfile)

	subscriptions := authProtected.Group("/subscriptions")
	subscriptions.Get("/me", subscriptionHandler.GetMySubscription)

	mealPlans := authProtected.Group("/meal-plans")
	mealPlans.Get("/me", mealPlanHandler.GetMyMealPlans)
	mealPlans.Get("/:id", mealPlanHandler.GetMealPlan)

	notes := authProtected.Group("/coach-notes")
	notes.Get("/me", coachNoteHandler.GetMyCoachNotes)

	progress := authProtected.Group("/progress")
	progress.Get("/photos", progressHandler.GetProgressPhotos)
	progress.Post("/photos", progressHandler.UploadProgressPhoto)
	progress.Delete("/photos/:id", progressHandler.DeleteProgressPhoto)

	exercises := authProtected.Group("/exercises")
	exercises.Get("", exerciseHandler.GetExercises)
	exercises.Get("/:id", exerciseHandler.GetExercise)

	workouts := authProtected.Group("/workouts")
	workouts.Get("", workoutHandler.GetWorkouts)
	workouts.Get("/logs", workoutHandler.GetWorkoutLogs)
	workouts.Post("/logs", workoutHandler.LogWorkout)
	workouts.Get("/:id", workoutHandler.GetWorkout)

	admin := authProtected.Group("/admin", middleware.AdminRequired(profileService))
	admin.Get("/profiles", profileHandler.ListProfiles)
	admin.Get("/subscriptions", subscriptionHandler.GetAllSubscriptions)
	admin.Post("/subscriptions", subscriptionHandler.CreateOrUpdateSubscription)
	admin.Get("/meal-plans", mealPlanHandler.GetAllMealPlans)
	admin.Post("/meal-plans", mealPlanHandler.CreateMealPlan)
	admin.Post("/meal-plans/:id/meals", mealPlanHandler.AddMeal)
	admin.Post("/coach-notes", coachNoteHandler.CreateCoachNote)
	admin.Put("/coach-notes/:id", coachNoteHandler.UpdateCoachNote)
	admin.Delete("/coach-notes/:id", coachNoteHandler.DeleteCoachNote)

	return registerDocs(app, cfg)
}

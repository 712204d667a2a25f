package services

import (
	"context"
	"log"
	"time"

	"github.com/Mhmdshannon/Spark/internal/cache"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
	"golang.org/x/sync/singleflight"
)

const tableCheckTTL = 30 * time.Second

// InitResult reports a schema bootstrap attempt.
type InitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SchemaService lazily creates missing tables through the exec_sql escape
// hatch. Existence checks are cached; concurrent bootstrap attempts coalesce
// into one.
type SchemaService struct {
	db     *supabase.Client
	tables *cache.Cache[bool]
	group  singleflight.Group
}

func NewSchemaService(db *supabase.Client) *SchemaService {
	return &SchemaService{
		db:     db,
		tables: cache.New[bool](tableCheckTTL),
	}
}

// TableExists probes a table with a one-row select. Results are cached for
// the table-check TTL in both directions.
func (s *SchemaService) TableExists(ctx context.Context, table string) bool {
	if exists, ok := s.tables.Get(table); ok {
		return exists
	}

	_, err := safecall.Try(ctx, time.Second, func(ctx context.Context) (struct{}, error) {
		var rows []map[string]any
		err := s.db.From(table).Select("id").Limit(1).Execute(ctx, &rows)
		return struct{}{}, err
	})
	exists := err == nil
	s.tables.Set(table, exists)
	return exists
}

// InitializeDatabase creates the application tables when absent. Idempotent;
// concurrent callers share one attempt.
func (s *SchemaService) InitializeDatabase(ctx context.Context) InitResult {
	result, _, _ := s.group.Do("init", func() (any, error) {
		return s.initialize(ctx), nil
	})
	return result.(InitResult)
}

// EnsureInitialized is the retry hook for missing-relation errors.
func (s *SchemaService) EnsureInitialized(ctx context.Context) bool {
	result := s.InitializeDatabase(ctx)
	if !result.Success {
		log.Printf("database initialization failed: %s", result.Message)
	}
	return result.Success
}

func (s *SchemaService) initialize(ctx context.Context) InitResult {
	log.Println("Initializing database...")

	for _, stmt := range schemaStatements {
		if _, err := safecall.Try(ctx, safecall.SetupBudget, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.db.ExecSQL(ctx, stmt.sql)
		}); err != nil {
			return InitResult{Success: false, Message: "failed to create " + stmt.name + ": " + err.Error()}
		}
	}

	s.tables.InvalidateAll()
	return InitResult{Success: true, Message: "Database initialized successfully"}
}

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"profiles", `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID UNIQUE REFERENCES auth.users(id) ON DELETE CASCADE,
			first_name TEXT,
			last_name TEXT,
			email TEXT,
			age INTEGER,
			height TEXT,
			weight NUMERIC,
			target_weight NUMERIC,
			primary_goal TEXT,
			weekly_workouts INTEGER,
			coach TEXT,
			role TEXT DEFAULT 'member',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT unique_user_id UNIQUE (user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);
		CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email);
		CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);
	`},
	{"subscriptions", `
		CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			plan_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			amount NUMERIC NOT NULL DEFAULT 0,
			payment_id TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
		CREATE INDEX IF NOT EXISTS idx_subscriptions_end_date ON subscriptions(end_date);
	`},
	{"meal_plans", `
		CREATE TABLE IF NOT EXISTS meal_plans (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			created_by UUID,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS meals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			meal_plan_id UUID REFERENCES meal_plans(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			time_of_day TEXT NOT NULL,
			calories INTEGER,
			protein NUMERIC,
			carbs NUMERIC,
			fat NUMERIC,
			recipe TEXT,
			image_url TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`},
	{"coach_notes", `
		CREATE TABLE IF NOT EXISTS coach_notes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
			coach_id UUID REFERENCES auth.users(id),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`},
	{"progress_photos", `
		CREATE TABLE IF NOT EXISTS progress_photos (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
			photo_url TEXT NOT NULL,
			weight NUMERIC,
			date DATE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`},
	{"exercises", `
		CREATE TABLE IF NOT EXISTS exercises (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			category TEXT,
			description TEXT,
			video_url TEXT,
			image_urls JSONB,
			steps JSONB,
			tips JSONB,
			muscles JSONB,
			equipment JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category);
	`},
	{"workouts", `
		CREATE TABLE IF NOT EXISTS workouts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			type TEXT,
			description TEXT,
			duration INTEGER,
			coach TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS workout_exercises (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			workout_id UUID REFERENCES workouts(id) ON DELETE CASCADE,
			exercise_id UUID,
			sets INTEGER,
			reps TEXT,
			weight TEXT,
			order_num INTEGER
		);
	`},
	{"workout_logs", `
		CREATE TABLE IF NOT EXISTS workout_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES auth.users(id) ON DELETE CASCADE,
			workout_id UUID,
			date DATE NOT NULL,
			duration INTEGER,
			notes TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS exercise_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			workout_log_id UUID REFERENCES workout_logs(id) ON DELETE CASCADE,
			exercise_id UUID,
			sets JSONB,
			notes TEXT
		);
	`},
}

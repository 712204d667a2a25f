package services

import (
	"context"
	"log"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// WorkoutService serves the workout catalog and per-user workout logs.
type WorkoutService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewWorkoutService(db *supabase.Client, schema *SchemaService) *WorkoutService {
	return &WorkoutService{db: db, schema: schema}
}

func (s *WorkoutService) GetWorkouts(ctx context.Context) []models.Workout {
	workouts, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.Workout, error) {
		var list []models.Workout
		err := s.db.From("workouts").Select("*").Order("name", true).Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching workouts: %v", err)
		}
		return nil
	}
	return workouts
}

// GetWorkoutWithExercises returns a workout and its exercise prescriptions in
// their configured order. A failed exercises fetch still returns the workout.
func (s *WorkoutService) GetWorkoutWithExercises(ctx context.Context, workoutID string) (*models.Workout, []models.WorkoutExercise) {
	workout, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.Workout, error) {
		var workout models.Workout
		err := s.db.From("workouts").Select("*").Eq("id", workoutID).Single().Execute(ctx, &workout)
		return &workout, err
	})
	if err != nil {
		log.Printf("error fetching workout %s: %v", workoutID, err)
		return nil, nil
	}

	exercises, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.WorkoutExercise, error) {
		var list []models.WorkoutExercise
		err := s.db.From("workout_exercises").
			Select("*").
			Eq("workout_id", workoutID).
			Order("order_num", true).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		log.Printf("error fetching exercises for workout %s: %v", workoutID, err)
		return workout, nil
	}
	return workout, exercises
}

// LogWorkout records a completed session and its per-exercise sets. The
// session row is the source of truth; a failed exercise-log insert is logged
// and the session still counts.
func (s *WorkoutService) LogWorkout(ctx context.Context, entry models.WorkoutLog, exercises []models.ExerciseLog) *models.WorkoutLog {
	entry.CreatedAt = isoNow()

	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.WorkoutLog, error) {
		var created models.WorkoutLog
		err := s.db.From("workout_logs").Insert([]models.WorkoutLog{entry}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		}
		log.Printf("error logging workout for %s: %v", entry.UserID, err)
		return nil
	}

	for i := range exercises {
		exercises[i].WorkoutLogID = created.ID
	}
	if len(exercises) > 0 {
		_, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.db.From("exercise_logs").Insert(exercises).Execute(ctx, nil)
		})
		if err != nil {
			log.Printf("error logging exercises for workout log %s: %v", created.ID, err)
		}
	}
	return created
}

func (s *WorkoutService) GetWorkoutLogs(ctx context.Context, userID string) []models.WorkoutLog {
	logs, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.WorkoutLog, error) {
		var list []models.WorkoutLog
		err := s.db.From("workout_logs").
			Select("*").
			Eq("user_id", userID).
			Order("date", false).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching workout logs for %s: %v", userID, err)
		}
		return nil
	}
	return logs
}

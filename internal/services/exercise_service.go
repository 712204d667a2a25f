package services

import (
	"context"
	"log"
	"strings"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// ExerciseService serves the shared exercise library.
type ExerciseService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewExerciseService(db *supabase.Client, schema *SchemaService) *ExerciseService {
	return &ExerciseService{db: db, schema: schema}
}

func (s *ExerciseService) GetExercises(ctx context.Context) []models.Exercise {
	return s.list(ctx, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q
	})
}

func (s *ExerciseService) GetExercisesByCategory(ctx context.Context, category string) []models.Exercise {
	return s.list(ctx, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q.Eq("category", category)
	})
}

// SearchExercises matches the query against names and descriptions,
// case-insensitively.
func (s *ExerciseService) SearchExercises(ctx context.Context, query string) []models.Exercise {
	pattern := "*" + sanitizePattern(query) + "*"
	return s.list(ctx, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q.Or("name.ilike." + pattern + ",description.ilike." + pattern)
	})
}

func (s *ExerciseService) list(ctx context.Context, refine func(*supabase.QueryBuilder) *supabase.QueryBuilder) []models.Exercise {
	exercises, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.Exercise, error) {
		var list []models.Exercise
		err := refine(s.db.From("exercises").Select("*")).
			Order("name", true).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching exercises: %v", err)
		}
		return nil
	}
	return exercises
}

func (s *ExerciseService) GetExercise(ctx context.Context, exerciseID string) *models.Exercise {
	exercise, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.Exercise, error) {
		var exercise models.Exercise
		err := s.db.From("exercises").Select("*").Eq("id", exerciseID).Single().Execute(ctx, &exercise)
		return &exercise, err
	})
	if err != nil {
		if !supabase.IsNoRows(err) {
			log.Printf("error fetching exercise %s: %v", exerciseID, err)
		}
		return nil
	}
	return exercise
}

// sanitizePattern strips the characters that would break out of a filter
// expression.
func sanitizePattern(query string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '%':
			return -1
		}
		return r
	}, query)
}

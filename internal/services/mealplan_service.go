package services

import (
	"context"
	"log"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// MealPlanService serves meal plans and their meals.
type MealPlanService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewMealPlanService(db *supabase.Client, schema *SchemaService) *MealPlanService {
	return &MealPlanService{db: db, schema: schema}
}

func (s *MealPlanService) GetUserMealPlans(ctx context.Context, userID string) []models.MealPlan {
	plans, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.MealPlan, error) {
		var list []models.MealPlan
		err := s.db.From("meal_plans").
			Select("*").
			Eq("user_id", userID).
			Order("start_date", false).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching meal plans for %s: %v", userID, err)
		}
		return nil
	}
	return plans
}

// GetMealPlanWithMeals returns a plan and its meals ordered by time of day.
// A failed meals fetch still returns the plan with no meals.
func (s *MealPlanService) GetMealPlanWithMeals(ctx context.Context, mealPlanID string) (*models.MealPlan, []models.Meal) {
	plan, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.MealPlan, error) {
		var plan models.MealPlan
		err := s.db.From("meal_plans").Select("*").Eq("id", mealPlanID).Single().Execute(ctx, &plan)
		return &plan, err
	})
	if err != nil {
		log.Printf("error fetching meal plan %s: %v", mealPlanID, err)
		return nil, nil
	}

	meals, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.Meal, error) {
		var list []models.Meal
		err := s.db.From("meals").
			Select("*").
			Eq("meal_plan_id", mealPlanID).
			Order("time_of_day", true).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		log.Printf("error fetching meals for plan %s: %v", mealPlanID, err)
		return plan, nil
	}
	return plan, meals
}

// CreateMealPlan inserts a plan; admin only at the route level.
func (s *MealPlanService) CreateMealPlan(ctx context.Context, plan models.MealPlan) *models.MealPlan {
	plan.CreatedAt = isoNow()
	plan.UpdatedAt = plan.CreatedAt

	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.MealPlan, error) {
		var created models.MealPlan
		err := s.db.From("meal_plans").Insert([]models.MealPlan{plan}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) && s.schema.EnsureInitialized(ctx) {
			retried, retryErr := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.MealPlan, error) {
				var retried models.MealPlan
				err := s.db.From("meal_plans").Insert([]models.MealPlan{plan}).Single().Execute(ctx, &retried)
				return &retried, err
			})
			if retryErr == nil {
				return retried
			}
			log.Printf("error creating meal plan after initialization: %v", retryErr)
			return nil
		}
		log.Printf("error creating meal plan: %v", err)
		return nil
	}
	return created
}

// AddMeal attaches a meal to an existing plan.
func (s *MealPlanService) AddMeal(ctx context.Context, meal models.Meal) *models.Meal {
	meal.CreatedAt = isoNow()

	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.Meal, error) {
		var created models.Meal
		err := s.db.From("meals").Insert([]models.Meal{meal}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		log.Printf("error adding meal to plan %s: %v", meal.MealPlanID, err)
		return nil
	}
	return created
}

func (s *MealPlanService) GetAllMealPlans(ctx context.Context) []models.MealPlan {
	plans, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.MealPlan, error) {
		var list []models.MealPlan
		err := s.db.From("meal_plans").
			Select("*,profile:profiles(first_name,last_name,email)").
			Order("created_at", false).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching all meal plans: %v", err)
		}
		return nil
	}
	return plans
}

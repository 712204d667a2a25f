package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

type MealPlanHandler struct {
	mealPlans *services.MealPlanService
}

func NewMealPlanHandler(mealPlans *services.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlans: mealPlans}
}

func (h *MealPlanHandler) GetMyMealPlans(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	plans := h.mealPlans.GetUserMealPlans(c.Context(), userID)
	if plans == nil {
		plans = []models.MealPlan{}
	}
	return c.JSON(fiber.Map{"meal_plans": plans})
}

// GetMealPlan serves a plan to its assignee or the coach who created it.
// Anyone else sees a missing plan rather than a hint that the id exists.
func (h *MealPlanHandler) GetMealPlan(c *fiber.Ctx) error {
	plan, meals := h.mealPlans.GetMealPlanWithMeals(c.Context(), c.Params("id"))
	if plan == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Meal plan not found"})
	}
	callerID, _ := c.Locals("user_id").(string)
	if plan.UserID != callerID && plan.CreatedBy != callerID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Meal plan not found"})
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	return c.JSON(fiber.Map{"meal_plan": plan, "meals": meals})
}

type mealPlanRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

func (h *MealPlanHandler) CreateMealPlan(c *fiber.Ctx) error {
	var req mealPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.Title == "" || req.StartDate == "" || req.EndDate == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "user_id, title, start_date and end_date are required"})
	}

	creatorID, _ := c.Locals("user_id").(string)
	plan := h.mealPlans.CreateMealPlan(c.Context(), models.MealPlan{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   creatorID,
	})
	if plan == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Meal plan creation failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"meal_plan": plan})
}

type mealRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	TimeOfDay   string   `json:"time_of_day"`
	Calories    *int     `json:"calories"`
	Protein     *float64 `json:"protein"`
	Carbs       *float64 `json:"carbs"`
	Fat         *float64 `json:"fat"`
	Recipe      *string  `json:"recipe"`
	ImageURL    *string  `json:"image_url"`
}

func (h *MealPlanHandler) AddMeal(c *fiber.Ctx) error {
	var req mealRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if !models.ValidTimeOfDay(req.TimeOfDay) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "time_of_day must be breakfast, lunch, dinner or snack"})
	}

	meal := h.mealPlans.AddMeal(c.Context(), models.Meal{
		MealPlanID:  c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		TimeOfDay:   req.TimeOfDay,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		Recipe:      req.Recipe,
		ImageURL:    req.ImageURL,
	})
	if meal == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Meal creation failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"meal": meal})
}

func (h *MealPlanHandler) GetAllMealPlans(c *fiber.Ctx) error {
	plans := h.mealPlans.GetAllMealPlans(c.Context())
	if plans == nil {
		plans = []models.MealPlan{}
	}
	return c.JSON(fiber.Map{"meal_plans": plans})
}

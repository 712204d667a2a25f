package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

type ExerciseHandler struct {
	exercises *services.ExerciseService
}

func NewExerciseHandler(exercises *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises}
}

// GetExercises lists the exercise library. A q parameter searches names and
// descriptions; a category parameter narrows to one category.
func (h *ExerciseHandler) GetExercises(c *fiber.Ctx) error {
	var exercises []models.Exercise
	switch {
	case c.Query("q") != "":
		exercises = h.exercises.SearchExercises(c.Context(), c.Query("q"))
	case c.Query("category") != "":
		exercises = h.exercises.GetExercisesByCategory(c.Context(), c.Query("category"))
	default:
		exercises = h.exercises.GetExercises(c.Context())
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return c.JSON(fiber.Map{"exercises": exercises})
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	exercise := h.exercises.GetExercise(c.Context(), c.Params("id"))
	if exercise == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exercise not found"})
	}
	return c.JSON(fiber.Map{"exercise": exercise})
}

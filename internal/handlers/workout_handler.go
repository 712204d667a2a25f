package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

type WorkoutHandler struct {
	workouts *services.WorkoutService
}

func NewWorkoutHandler(workouts *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) GetWorkouts(c *fiber.Ctx) error {
	workouts := h.workouts.GetWorkouts(c.Context())
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return c.JSON(fiber.Map{"workouts": workouts})
}

func (h *WorkoutHandler) GetWorkout(c *fiber.Ctx) error {
	workout, exercises := h.workouts.GetWorkoutWithExercises(c.Context(), c.Params("id"))
	if workout == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workout not found"})
	}
	if exercises == nil {
		exercises = []models.WorkoutExercise{}
	}
	return c.JSON(fiber.Map{"workout": workout, "exercises": exercises})
}

type workoutLogRequest struct {
	WorkoutID string               `json:"workout_id"`
	Date      string               `json:"date"`
	Duration  int                  `json:"duration"`
	Notes     *string              `json:"notes"`
	Exercises []models.ExerciseLog `json:"exercises"`
}

// LogWorkout records a completed session. The session row is authoritative;
// exercise detail is best effort.
func (h *WorkoutHandler) LogWorkout(c *fiber.Ctx) error {
	var req workoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WorkoutID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "workout_id is required"})
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}

	userID, _ := c.Locals("user_id").(string)
	entry := h.workouts.LogWorkout(c.Context(), models.WorkoutLog{
		UserID:    userID,
		WorkoutID: req.WorkoutID,
		Date:      req.Date,
		Duration:  req.Duration,
		Notes:     req.Notes,
	}, req.Exercises)
	if entry == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Workout logging failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"log": entry})
}

func (h *WorkoutHandler) GetWorkoutLogs(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	logs := h.workouts.GetWorkoutLogs(c.Context(), userID)
	if logs == nil {
		logs = []models.WorkoutLog{}
	}
	return c.JSON(fiber.Map{"logs": logs})
}

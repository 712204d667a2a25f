package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

type CoachNoteHandler struct {
	notes *services.CoachNoteService
}

func NewCoachNoteHandler(notes *services.CoachNoteService) *CoachNoteHandler {
	return &CoachNoteHandler{notes: notes}
}

func (h *CoachNoteHandler) GetMyCoachNotes(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	notes := h.notes.GetUserCoachNotes(c.Context(), userID)
	if notes == nil {
		notes = []models.CoachNote{}
	}
	return c.JSON(fiber.Map{"notes": notes})
}

type coachNoteRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *CoachNoteHandler) CreateCoachNote(c *fiber.Ctx) error {
	var req coachNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "user_id, title and content are required"})
	}

	coachID, _ := c.Locals("user_id").(string)
	note := h.notes.CreateCoachNote(c.Context(), models.CoachNote{
		UserID:  req.UserID,
		CoachID: coachID,
		Title:   req.Title,
		Content: req.Content,
	})
	if note == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Note creation failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": note})
}

func (h *CoachNoteHandler) UpdateCoachNote(c *fiber.Ctx) error {
	noteID := c.Params("id")
	existing := h.notes.GetCoachNote(c.Context(), noteID)
	if existing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}
	coachID, _ := c.Locals("user_id").(string)
	if existing.CoachID != coachID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the authoring coach can edit a note"})
	}

	var req coachNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	title := existing.Title
	if req.Title != "" {
		title = req.Title
	}
	content := existing.Content
	if req.Content != "" {
		content = req.Content
	}

	note := h.notes.UpdateCoachNote(c.Context(), noteID, title, content)
	if note == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Note update failed"})
	}
	return c.JSON(fiber.Map{"note": note})
}

func (h *CoachNoteHandler) DeleteCoachNote(c *fiber.Ctx) error {
	noteID := c.Params("id")
	existing := h.notes.GetCoachNote(c.Context(), noteID)
	if existing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}
	coachID, _ := c.Locals("user_id").(string)
	if existing.CoachID != coachID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the authoring coach can delete a note"})
	}

	if !h.notes.DeleteCoachNote(c.Context(), noteID) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Note deletion failed"})
	}
	return c.JSON(fiber.Map{"message": "Note deleted"})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func currentUser(c *fiber.Ctx) *supabase.User {
	user, _ := c.Locals("user").(*supabase.User)
	return user
}

// GetMyProfile returns the caller's profile, synthesizing a default row when
// none exists. A nil profile here means the store was unreachable.
func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.GetProfile(c.Context(), currentUser(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Profile access denied"})
	}
	if profile == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Profile temporarily unavailable"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateMyProfile(c *fiber.Ctx) error {
	var update models.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	// Role changes go through the admin surface only.
	update.Role = nil

	profile, err := h.profiles.UpdateProfile(c.Context(), currentUser(c), update)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Profile access denied"})
	}
	if profile == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Profile temporarily unavailable"})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// ListProfiles is the admin member roster.
func (h *ProfileHandler) ListProfiles(c *fiber.Ctx) error {
	profiles := h.profiles.ListProfiles(c.Context())
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return c.JSON(fiber.Map{"profiles": profiles})
}

package handlers

import (
	"crypto/subtle"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/services"
)

// SetupHandler exposes the operator endpoints: schema bootstrap, connectivity
// checks and admin promotion. All of them answer with a {success, message}
// envelope and require the setup key.
type SetupHandler struct {
	schema   *services.SchemaService
	profiles *services.ProfileService
	admin    *services.AdminService
	setupKey string
}

func NewSetupHandler(schema *services.SchemaService, profiles *services.ProfileService, admin *services.AdminService, setupKey string) *SetupHandler {
	return &SetupHandler{schema: schema, profiles: profiles, admin: admin, setupKey: setupKey}
}

// RequireSetupKey guards the setup group. With no key configured the group
// is disabled outright.
func (h *SetupHandler) RequireSetupKey(c *fiber.Ctx) error {
	if h.setupKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(services.InitResult{
			Success: false, Message: "Setup endpoints are disabled",
		})
	}
	provided := c.Get("X-Setup-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.setupKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(services.InitResult{
			Success: false, Message: "Invalid setup key",
		})
	}
	return c.Next()
}

func (h *SetupHandler) InitDatabase(c *fiber.Ctx) error {
	result := h.schema.InitializeDatabase(c.Context())
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

func (h *SetupHandler) TestDatabase(c *fiber.Ctx) error {
	result := h.profiles.TestDatabaseSetup(c.Context())
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

func (h *SetupHandler) TestConnection(c *fiber.Ctx) error {
	result := h.admin.TestConnection(c.Context())
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

type makeAdminRequest struct {
	Email string `json:"email"`
}

func (h *SetupHandler) MakeAdmin(c *fiber.Ctx) error {
	var req makeAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.InitResult{
			Success: false, Message: "Invalid request body",
		})
	}
	parsed, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.InitResult{
			Success: false, Message: "Invalid email format",
		})
	}

	result := h.admin.MakeUserAdmin(c.Context(), strings.ToLower(parsed.Address))
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

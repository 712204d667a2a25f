package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookie = "language"

var supportedLanguages = map[string]bool{
	"en": true,
	"ar": true,
}

// SettingsHandler persists lightweight per-visitor preferences in cookies.
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

func (h *SettingsHandler) GetLanguage(c *fiber.Ctx) error {
	language := c.Cookies(languageCookie)
	if !supportedLanguages[language] {
		language = "en"
	}
	return c.JSON(fiber.Map{"language": language})
}

type languageRequest struct {
	Language string `json:"language"`
}

func (h *SettingsHandler) SetLanguage(c *fiber.Ctx) error {
	var req languageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !supportedLanguages[req.Language] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "language must be en or ar"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     languageCookie,
		Value:    req.Language,
		Expires:  time.Now().AddDate(1, 0, 0),
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"language": req.Language})
}

package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

// Progress photos cap at 5 MB, matching the storage bucket policy.
const maxPhotoSize = 5 << 20

type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) UploadProgressPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A photo file is required"})
	}
	if fileHeader.Size > maxPhotoSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Photo exceeds 5MB"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read photo"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read photo"})
	}

	var weight *float64
	if raw := c.FormValue("weight"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "weight must be a number"})
		}
		weight = &parsed
	}

	userID, _ := c.Locals("user_id").(string)
	photo := h.progress.UploadProgressPhoto(
		c.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, weight)
	if photo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Photo upload failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photo": photo})
}

func (h *ProgressHandler) GetProgressPhotos(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	token, _ := c.Locals("token").(string)
	photos := h.progress.GetProgressPhotos(c.Context(), userID, token)
	if photos == nil {
		photos = []models.ProgressPhoto{}
	}
	return c.JSON(fiber.Map{"photos": photos})
}

func (h *ProgressHandler) DeleteProgressPhoto(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	token, _ := c.Locals("token").(string)
	if !h.progress.DeleteProgressPhoto(c.Context(), userID, token, c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
	}
	return c.JSON(fiber.Map{"message": "Photo deleted"})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/services"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// GetMySubscription reports the caller's current subscription with derived
// status. No subscription is a normal answer, not an error.
func (h *SubscriptionHandler) GetMySubscription(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	sub := h.subscriptions.GetUserSubscription(c.Context(), userID)
	if sub == nil {
		return c.JSON(fiber.Map{
			"subscription": nil,
			"active":       false,
			"days_left":    0,
		})
	}
	return c.JSON(fiber.Map{
		"subscription": sub,
		"active":       services.IsSubscriptionActive(sub),
		"days_left":    services.DaysLeft(sub.EndDate),
	})
}

type subscriptionRequest struct {
	UserID    string  `json:"user_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PlanType  string  `json:"plan_type"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	PaymentID *string `json:"payment_id"`
}

// CreateOrUpdateSubscription upserts a member's subscription. Admin only.
func (h *SubscriptionHandler) CreateOrUpdateSubscription(c *fiber.Ctx) error {
	var req subscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.StartDate == "" || req.EndDate == "" || req.PlanType == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "user_id, start_date, end_date and plan_type are required"})
	}
	if req.Status == "" {
		req.Status = models.SubscriptionActive
	}

	sub := h.subscriptions.CreateOrUpdateSubscription(c.Context(), models.Subscription{
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		PlanType:  req.PlanType,
		Status:    req.Status,
		Amount:    req.Amount,
		PaymentID: req.PaymentID,
	})
	if sub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Subscription update failed"})
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

// GetAllSubscriptions is the admin billing roster.
func (h *SubscriptionHandler) GetAllSubscriptions(c *fiber.Ctx) error {
	subs := h.subscriptions.GetAllSubscriptions(c.Context())
	if subs == nil {
		subs = []models.Subscription{}
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

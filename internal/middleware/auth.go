package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/session"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

// BearerToken extracts the access token from the Authorization header, or ""
// when none is present.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired rejects requests that do not carry a resolvable access token
// and stores the identity in locals for handlers downstream.
func AuthRequired(resolver *session.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		user := resolver.Resolve(c.Context(), token)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("email", user.Email)
		c.Locals("token", token)
		c.Locals("user", user)

		return c.Next()
	}
}

// RoleResolver is the slice of the profile service role checks need.
type RoleResolver interface {
	GetProfile(ctx context.Context, identity *supabase.User) (*models.Profile, error)
}

// AdminRequired gates admin routes on the profile role. Runs after
// AuthRequired.
func AdminRequired(profiles RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := c.Locals("user").(*supabase.User)
		profile, err := profiles.GetProfile(c.Context(), user)
		if err != nil || profile == nil || profile.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

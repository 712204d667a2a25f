package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/session"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

type AuthHandler struct {
	auth     *supabase.AuthClient
	resolver *session.Resolver
}

func NewAuthHandler(auth *supabase.AuthClient, resolver *session.Resolver) *AuthHandler {
	return &AuthHandler{auth: auth, resolver: resolver}
}

type registerRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates everything locally before any network call: a bad
// request never reaches the auth backend.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "First and last name are required"})
	}
	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 6 characters"})
	}
	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Passwords do not match"})
	}

	sess, err := h.auth.SignUp(c.Context(), req.Email, req.Password, map[string]any{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	})
	if err != nil {
		return authError(c, err, "Registration failed")
	}

	if sess.AccessToken == "" {
		return c.JSON(fiber.Map{
			"message": "Registration successful, confirm your email to sign in",
			"user":    sess.User,
		})
	}
	return c.JSON(fiber.Map{
		"token": sess.AccessToken,
		"user":  sess.User,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password is required"})
	}

	sess, err := h.auth.SignInWithPassword(c.Context(), req.Email, req.Password)
	if err != nil {
		return authError(c, err, "Invalid email or password")
	}

	return c.JSON(fiber.Map{
		"token": sess.AccessToken,
		"user":  sess.User,
	})
}

// Logout revokes the token and drops it from the resolver cache. The
// response is a success even when remote revocation fails; the token is gone
// locally either way.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	// Revocation failure still ends the session locally.
	_ = h.auth.SignOut(c.Context(), token)
	h.resolver.Invalidate(token)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*supabase.User)
	if !ok || user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.JSON(fiber.Map{"user": user})
}

// authError maps backend auth failures onto client responses, passing the
// backend status through when it is a client error.
func authError(c *fiber.Ctx, err error, fallback string) error {
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return c.Status(apiErr.StatusCode).JSON(fiber.Map{"error": apiErr.Message})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": fallback})
}

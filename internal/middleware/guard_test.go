package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/session"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/utils"
)

const guardSecret = "guard-test-secret"

func newGuardedApp(t *testing.T) *fiber.App {
	t.Helper()
	// Local JWT verification; the auth backend is never reached.
	auth := supabase.NewClient("http://127.0.0.1:1", "anon-key", "", "user-uploads").Auth()
	resolver := session.NewResolver(auth, guardSecret)

	app := fiber.New()
	app.Use(RouteGuard(resolver))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/", ok)
	app.Get("/pricing", ok)
	app.Get("/login", ok)
	app.Get("/register", ok)
	app.Get("/dashboard", ok)
	app.Get("/dashboard/stats", ok)
	app.Get("/profile", ok)
	app.Get("/workout-timer", ok)
	app.Get("/workouts/:id", ok)
	app.Get("/exercise-library", ok)
	return app
}

func guardToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken("user-1", "jane@example.com", "member", guardSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestGuardMatrix(t *testing.T) {
	app := newGuardedApp(t)
	token := guardToken(t)

	cases := []struct {
		name         string
		path         string
		token        string
		wantStatus   int
		wantLocation string
	}{
		{"public root without session", "/", "", http.StatusOK, ""},
		{"public page without session", "/pricing", "", http.StatusOK, ""},
		{"public page with session", "/pricing", token, http.StatusOK, ""},
		{"protected without session", "/dashboard", "", http.StatusFound, "/login?from=%2Fdashboard"},
		{"protected subpath without session", "/dashboard/stats", "", http.StatusFound, "/login?from=%2Fdashboard%2Fstats"},
		{"protected with session", "/dashboard", token, http.StatusOK, ""},
		{"workout timer without session", "/workout-timer", "", http.StatusFound, "/login?from=%2Fworkout-timer"},
		{"workout detail without session", "/workouts/abc", "", http.StatusFound, "/login?from=%2Fworkouts%2Fabc"},
		{"exercise library with session", "/exercise-library", token, http.StatusOK, ""},
		{"login without session", "/login", "", http.StatusOK, ""},
		{"login with session", "/login", token, http.StatusFound, "/dashboard"},
		{"register with session", "/register", token, http.StatusFound, "/dashboard"},
		{"protected with garbage token fails closed", "/profile", "garbage", http.StatusFound, "/login?from=%2Fprofile"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if tc.wantLocation != "" {
				if got := resp.Header.Get("Location"); got != tc.wantLocation {
					t.Fatalf("Location = %q, want %q", got, tc.wantLocation)
				}
			}
		})
	}
}

func TestGuardAcceptsCookieToken(t *testing.T) {
	app := newGuardedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: guardToken(t)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected cookie session to pass, got %d", resp.StatusCode)
	}
}

package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/session"
)

// Page classification for the route guard. Anything not listed is public.
var (
	protectedPrefixes = []string{
		"/dashboard",
		"/profile",
		"/workout-timer",
		"/workouts",
		"/exercise-library",
	}
	authOnlyPaths = []string{
		"/login",
		"/register",
	}
)

func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isAuthOnlyPath(path string) bool {
	for _, p := range authOnlyPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RouteGuard enforces page access by session presence. Protected pages
// without a session redirect to the login page carrying the original path;
// login and register redirect authenticated visitors to the dashboard.
// Protected pages fail closed: an unresolvable session is treated as none.
func RouteGuard(resolver *session.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		protected := isProtectedPath(path)
		authOnly := isAuthOnlyPath(path)
		if !protected && !authOnly {
			return c.Next()
		}

		token := BearerToken(c)
		if token == "" {
			token = c.Cookies("access_token")
		}
		user := resolver.Resolve(c.Context(), token)

		if protected && user == nil {
			return c.Redirect("/login?from="+url.QueryEscape(path), fiber.StatusFound)
		}
		if authOnly && user != nil {
			return c.Redirect("/dashboard", fiber.StatusFound)
		}
		return c.Next()
	}
}

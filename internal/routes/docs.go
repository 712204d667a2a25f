package routes

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/config"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body {
      margin: 0 auto;
      max-width: 960px;
      padding: 40px 20px;
      font-family: Georgia, "Times New Roman", serif;
      color: #132019;
      background: #f6f7f4;
    }
    h1 { margin: 0 0 8px; }
    p.lede { color: #536258; margin: 0 0 32px; }
    h2 { margin: 32px 0 8px; border-bottom: 1px solid #d8ddd6; padding-bottom: 4px; }
    table { width: 100%; border-collapse: collapse; }
    td { padding: 6px 8px; border-bottom: 1px solid #e4e8e2; vertical-align: top; }
    td.method { font-family: monospace; font-weight: bold; width: 5rem; color: #1f6f4a; }
    td.path { font-family: monospace; width: 22rem; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <p class="lede">{{ .Description }}</p>
  {{ range .Sections }}
  <h2>{{ .Name }}</h2>
  <table>
    {{ range .Endpoints }}
    <tr>
      <td class="method">{{ .Method }}</td>
      <td class="path">{{ .Path }}</td>
      <td>{{ .Summary }}</td>
    </tr>
    {{ end }}
  </table>
  {{ end }}
</body>
</html>`

type docsEndpoint struct {
	Method  string
	Path    string
	Summary string
}

type docsSection struct {
	Name      string
	Endpoints []docsEndpoint
}

type docsPage struct {
	Title       string
	Description string
	Sections    []docsSection
}

var docsIndex = docsPage{
	Title:       "Spark API",
	Description: "Membership, coaching and training endpoints for the Spark fitness platform.",
	Sections: []docsSection{
		{Name: "Auth", Endpoints: []docsEndpoint{
			{"POST", "/api/auth/register", "Create an account; returns a token when email confirmation is off"},
			{"POST", "/api/auth/login", "Sign in with email and password"},
			{"POST", "/api/auth/logout", "Revoke the current token"},
			{"GET", "/api/auth/me", "Identity behind the current token"},
		}},
		{Name: "Member", Endpoints: []docsEndpoint{
			{"GET", "/api/v1/profile", "Own profile, created on first access"},
			{"PUT", "/api/v1/profile", "Partial profile update"},
			{"GET", "/api/v1/subscriptions/me", "Current subscription with days left"},
			{"GET", "/api/v1/meal-plans/me", "Own meal plans"},
			{"GET", "/api/v1/meal-plans/:id", "One plan with its meals"},
			{"GET", "/api/v1/coach-notes/me", "Notes coaches wrote about the caller"},
			{"GET", "/api/v1/progress/photos", "Own progress photos"},
			{"POST", "/api/v1/progress/photos", "Upload a progress photo (multipart, 5MB cap)"},
			{"DELETE", "/api/v1/progress/photos/:id", "Delete a progress photo"},
			{"GET", "/api/v1/exercises", "Exercise library, searchable with ?q= and ?category="},
			{"GET", "/api/v1/exercises/:id", "One exercise with steps and media"},
			{"GET", "/api/v1/workouts", "Workout catalog"},
			{"GET", "/api/v1/workouts/:id", "One workout with its exercises"},
			{"GET", "/api/v1/workouts/logs", "Own workout history"},
			{"POST", "/api/v1/workouts/logs", "Record a completed session"},
		}},
		{Name: "Admin", Endpoints: []docsEndpoint{
			{"GET", "/api/v1/admin/profiles", "Member roster"},
			{"GET", "/api/v1/admin/subscriptions", "All subscriptions with owner names"},
			{"POST", "/api/v1/admin/subscriptions", "Create or update a member subscription"},
			{"GET", "/api/v1/admin/meal-plans", "All meal plans"},
			{"POST", "/api/v1/admin/meal-plans", "Assign a meal plan"},
			{"POST", "/api/v1/admin/meal-plans/:id/meals", "Add a meal to a plan"},
			{"POST", "/api/v1/admin/coach-notes", "Write a note about a member"},
			{"PUT", "/api/v1/admin/coach-notes/:id", "Edit an own note"},
			{"DELETE", "/api/v1/admin/coach-notes/:id", "Delete an own note"},
		}},
		{Name: "Setup", Endpoints: []docsEndpoint{
			{"POST", "/api/setup/init-db", "Create missing tables (X-Setup-Key)"},
			{"GET", "/api/setup/test-db", "Verify the schema is reachable"},
			{"GET", "/api/setup/test-connection", "Verify the backend answers"},
			{"POST", "/api/setup/make-admin", "Promote a registered email to admin"},
		}},
		{Name: "Settings", Endpoints: []docsEndpoint{
			{"GET", "/api/settings/language", "Current interface language (en or ar)"},
			{"PUT", "/api/settings/language", "Change the interface language"},
		}},
	},
}

// registerDocs serves a static endpoint index in development. Rendering runs
// once at startup so a template fault fails the boot, not a request.
func registerDocs(app *fiber.App, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	tmpl, err := template.New("docs").Parse(docsIndexHTML)
	if err != nil {
		return err
	}
	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, docsIndex); err != nil {
		return err
	}
	page := rendered.Bytes()

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	})
	return nil
}

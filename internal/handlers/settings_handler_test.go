package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newSettingsApp() *fiber.App {
	handler := NewSettingsHandler()
	app := fiber.New()
	app.Get("/api/settings/language", handler.GetLanguage)
	app.Put("/api/settings/language", handler.SetLanguage)
	return app
}

func TestLanguageDefaultsToEnglish(t *testing.T) {
	app := newSettingsApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/settings/language", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Language string `json:"language"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Language != "en" {
		t.Fatalf("expected en default, got %q", body.Language)
	}
}

func TestSetLanguagePersistsCookie(t *testing.T) {
	app := newSettingsApp()

	payload, _ := json.Marshal(map[string]string{"language": "ar"})
	req := httptest.NewRequest(http.MethodPut, "/api/settings/language", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "language" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "ar" {
		t.Fatalf("expected language cookie ar, got %+v", cookie)
	}

	// The cookie round-trips on the next read.
	read := httptest.NewRequest(http.MethodGet, "/api/settings/language", nil)
	read.AddCookie(&http.Cookie{Name: "language", Value: "ar"})
	readResp, err := app.Test(read)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer readResp.Body.Close()
	var body struct {
		Language string `json:"language"`
	}
	json.NewDecoder(readResp.Body).Decode(&body)
	if body.Language != "ar" {
		t.Fatalf("expected ar, got %q", body.Language)
	}
}

func TestSetLanguageRejectsUnsupported(t *testing.T) {
	app := newSettingsApp()

	payload, _ := json.Marshal(map[string]string{"language": "fr"})
	req := httptest.NewRequest(http.MethodPut, "/api/settings/language", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

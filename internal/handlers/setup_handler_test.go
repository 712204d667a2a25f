package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Mhmdshannon/Spark/internal/services"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

func newSetupApp(t *testing.T, setupKey string) *fiber.App {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/rpc/exec_sql" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	client := supabase.NewClient(server.URL, "anon-key", "service-key", "user-uploads")
	schemaService := services.NewSchemaService(client)
	profileService := services.NewProfileService(client, schemaService)
	adminService := services.NewAdminService(client, profileService, schemaService)
	handler := NewSetupHandler(schemaService, profileService, adminService, setupKey)

	app := fiber.New()
	setup := app.Group("/api/setup", handler.RequireSetupKey)
	setup.Post("/init-db", handler.InitDatabase)
	setup.Get("/test-db", handler.TestDatabase)
	setup.Get("/test-connection", handler.TestConnection)
	return app
}

func setupRequest(method, path, key string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-Setup-Key", key)
	}
	return req
}

func TestSetupDisabledWithoutConfiguredKey(t *testing.T) {
	app := newSetupApp(t, "")
	resp, err := app.Test(setupRequest(http.MethodPost, "/api/setup/init-db", "anything"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when setup is disabled, got %d", resp.StatusCode)
	}
}

func TestSetupRejectsWrongKey(t *testing.T) {
	app := newSetupApp(t, "right-key")
	for _, key := range []string{"", "wrong-key"} {
		resp, err := app.Test(setupRequest(http.MethodPost, "/api/setup/init-db", key))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("key %q: expected 401, got %d", key, resp.StatusCode)
		}
	}
}

func TestSetupInitDBReportsSuccessEnvelope(t *testing.T) {
	app := newSetupApp(t, "right-key")
	resp, err := app.Test(setupRequest(http.MethodPost, "/api/setup/init-db", "right-key"), 10000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result services.InitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !result.Success || result.Message == "" {
		t.Fatalf("expected success envelope, got %+v", result)
	}
}

func TestSetupConnectionCheck(t *testing.T) {
	app := newSetupApp(t, "right-key")
	resp, err := app.Test(setupRequest(http.MethodGet, "/api/setup/test-connection", "right-key"), 10000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result services.InitResult
	json.NewDecoder(resp.Body).Decode(&result)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
}

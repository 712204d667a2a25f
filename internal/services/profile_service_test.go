package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

// fakeBackend speaks just enough PostgREST for the profile flows: single-row
// selects, inserts with representation and patches by filter.
type fakeBackend struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	gets     int
	inserts  int
	patches  int
	failWith *supabase.Error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{profiles: make(map[string]models.Profile)}
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !strings.HasPrefix(r.URL.Path, "/rest/v1/profiles") {
			http.NotFound(w, r)
			return
		}
		if f.failWith != nil {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{
				"code":    f.failWith.Code,
				"message": f.failWith.Message,
			})
			return
		}

		userID := strings.TrimPrefix(r.URL.Query().Get("user_id"), "eq.")
		switch r.Method {
		case http.MethodGet:
			f.gets++
			profile, ok := f.profiles[userID]
			if !ok {
				w.WriteHeader(http.StatusNotAcceptable)
				json.NewEncoder(w).Encode(map[string]string{
					"code":    "PGRST116",
					"message": "JSON object requested, multiple (or no) rows returned",
				})
				return
			}
			json.NewEncoder(w).Encode(profile)
		case http.MethodPost:
			f.inserts++
			var rows []models.Profile
			json.NewDecoder(r.Body).Decode(&rows)
			profile := rows[0]
			profile.ID = "row-" + profile.UserID
			f.profiles[profile.UserID] = profile
			json.NewEncoder(w).Encode(profile)
		case http.MethodPatch:
			f.patches++
			profile, ok := f.profiles[userID]
			if !ok {
				w.WriteHeader(http.StatusNotAcceptable)
				json.NewEncoder(w).Encode(map[string]string{
					"code":    "PGRST116",
					"message": "JSON object requested, multiple (or no) rows returned",
				})
				return
			}
			var update models.ProfileUpdate
			json.NewDecoder(r.Body).Decode(&update)
			if update.FirstName != nil {
				profile.FirstName = *update.FirstName
			}
			if update.Role != nil {
				profile.Role = *update.Role
			}
			f.profiles[userID] = profile
			json.NewEncoder(w).Encode(profile)
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestProfileService(t *testing.T, backend *fakeBackend) *ProfileService {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := supabase.NewClient(server.URL, "anon-key", "", "user-uploads")
	return NewProfileService(client, NewSchemaService(client))
}

func TestGetProfileReturnsExistingRow(t *testing.T) {
	backend := newFakeBackend()
	backend.profiles["user-1"] = models.Profile{ID: "row-user-1", UserID: "user-1", FirstName: "Jane"}
	svc := newTestProfileService(t, backend)

	profile, err := svc.GetProfile(context.Background(), &supabase.User{ID: "user-1", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile == nil || profile.FirstName != "Jane" {
		t.Fatalf("expected Jane's profile, got %+v", profile)
	}
}

func TestGetProfileCachesReads(t *testing.T) {
	backend := newFakeBackend()
	backend.profiles["user-1"] = models.Profile{UserID: "user-1", FirstName: "Jane"}
	svc := newTestProfileService(t, backend)
	identity := &supabase.User{ID: "user-1"}

	for i := 0; i < 3; i++ {
		if _, err := svc.GetProfile(context.Background(), identity); err != nil {
			t.Fatalf("GetProfile: %v", err)
		}
	}
	if backend.gets != 1 {
		t.Fatalf("expected one backend read, got %d", backend.gets)
	}
}

func TestGetProfileSynthesizesDefaultOnMissingRow(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestProfileService(t, backend)

	profile, err := svc.GetProfile(context.Background(), &supabase.User{
		ID:    "user-2",
		Email: "new@example.com",
		UserMetadata: map[string]any{
			"first_name": "Nadia",
			"last_name":  "Haddad",
		},
	})
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile == nil {
		t.Fatal("expected a synthesized profile")
	}
	if profile.FirstName != "Nadia" || profile.LastName != "Haddad" {
		t.Errorf("expected metadata names, got %q %q", profile.FirstName, profile.LastName)
	}
	if profile.Role != models.RoleMember {
		t.Errorf("expected member role, got %q", profile.Role)
	}
	if backend.inserts != 1 {
		t.Fatalf("expected one insert, got %d", backend.inserts)
	}
}

func TestGetProfileUsesPlaceholdersWithoutMetadata(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestProfileService(t, backend)

	profile, err := svc.GetProfile(context.Background(), &supabase.User{ID: "user-3"})
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.FirstName != placeholderFirstName || profile.LastName != placeholderLastName {
		t.Errorf("expected placeholder names, got %q %q", profile.FirstName, profile.LastName)
	}
	if profile.Email != placeholderEmail {
		t.Errorf("expected placeholder email, got %q", profile.Email)
	}
}

func TestGetProfileSurfacesPermissionErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.failWith = &supabase.Error{Code: "42501", Message: "permission denied for table profiles"}
	svc := newTestProfileService(t, backend)

	profile, err := svc.GetProfile(context.Background(), &supabase.User{ID: "user-1"})
	if err == nil {
		t.Fatal("expected permission error to surface")
	}
	if profile != nil {
		t.Fatal("expected no profile alongside the error")
	}
}

func TestUpdateProfileFallsBackToCreate(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestProfileService(t, backend)

	firstName := "Omar"
	profile, err := svc.UpdateProfile(context.Background(), &supabase.User{
		ID:    "user-4",
		Email: "omar@example.com",
	}, models.ProfileUpdate{FirstName: &firstName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile == nil || profile.FirstName != "Omar" {
		t.Fatalf("expected created profile carrying the update, got %+v", profile)
	}
	if backend.patches != 1 || backend.inserts != 1 {
		t.Fatalf("expected patch then insert, got %d patches %d inserts", backend.patches, backend.inserts)
	}
}

func TestUpdateProfileAppliesPatch(t *testing.T) {
	backend := newFakeBackend()
	backend.profiles["user-5"] = models.Profile{UserID: "user-5", FirstName: "Old"}
	svc := newTestProfileService(t, backend)

	firstName := "New"
	profile, err := svc.UpdateProfile(context.Background(), &supabase.User{ID: "user-5"},
		models.ProfileUpdate{FirstName: &firstName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile.FirstName != "New" {
		t.Fatalf("expected patched name, got %q", profile.FirstName)
	}
	if backend.inserts != 0 {
		t.Fatalf("expected no insert for existing row, got %d", backend.inserts)
	}
}

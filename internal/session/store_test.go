package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Mhmdshannon/Spark/internal/supabase"
)

type recordingEnsurer struct {
	mu    sync.Mutex
	ids   []string
	fired chan string
}

func newRecordingEnsurer() *recordingEnsurer {
	return &recordingEnsurer{fired: make(chan string, 8)}
}

func (r *recordingEnsurer) EnsureProfile(ctx context.Context, identity *supabase.User) error {
	r.mu.Lock()
	r.ids = append(r.ids, identity.ID)
	r.mu.Unlock()
	r.fired <- identity.ID
	return nil
}

func (r *recordingEnsurer) waitForSync(t *testing.T) string {
	t.Helper()
	select {
	case id := <-r.fired:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("profile sync never fired")
		return ""
	}
}

// fakeGoTrue accepts one fixed credential pair and token.
func fakeGoTrue(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "valid-token",
				"token_type":   "bearer",
				"user":         map[string]any{"id": "user-1", "email": "jane@example.com"},
			})
		case "/auth/v1/user":
			if r.Header.Get("Authorization") != "Bearer valid-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "user-1", "email": "jane@example.com"})
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestStore(t *testing.T) (*Store, *supabase.AuthClient, *recordingEnsurer) {
	t.Helper()
	server := fakeGoTrue(t)
	auth := supabase.NewClient(server.URL, "anon-key", "", "user-uploads").Auth()
	ensurer := newRecordingEnsurer()
	store := NewStore(auth, ensurer)
	t.Cleanup(store.Close)
	return store, auth, ensurer
}

func TestStartWithoutTokenSettlesAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Start(context.Background(), "")

	if got := store.State(); got != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", got)
	}
	if store.User() != nil {
		t.Fatal("expected no user")
	}
}

func TestStartWithValidTokenAuthenticates(t *testing.T) {
	store, _, ensurer := newTestStore(t)
	store.Start(context.Background(), "valid-token")

	if got := store.State(); got != StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", got)
	}
	if user := store.User(); user == nil || user.ID != "user-1" {
		t.Fatalf("expected user-1, got %+v", user)
	}
	if id := ensurer.waitForSync(t); id != "user-1" {
		t.Fatalf("expected sync for user-1, got %s", id)
	}
}

func TestStartWithBadTokenFallsBackAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Start(context.Background(), "expired-token")

	if got := store.State(); got != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", got)
	}
}

func TestSignInNotificationAuthenticates(t *testing.T) {
	store, auth, ensurer := newTestStore(t)
	store.Start(context.Background(), "")

	if _, err := auth.SignInWithPassword(context.Background(), "jane@example.com", "secret"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if got := store.State(); got != StateAuthenticated {
		t.Fatalf("expected authenticated after sign-in, got %s", got)
	}
	ensurer.waitForSync(t)
}

func TestSignOutNotificationSettlesAnonymous(t *testing.T) {
	store, auth, ensurer := newTestStore(t)
	store.Start(context.Background(), "")

	if _, err := auth.SignInWithPassword(context.Background(), "jane@example.com", "secret"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	ensurer.waitForSync(t)

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if got := store.State(); got != StateAnonymous {
		t.Fatalf("expected anonymous after sign-out, got %s", got)
	}
	if store.Session() != nil {
		t.Fatal("expected session to be cleared")
	}
}

func TestRepeatSignInsNeverReenterLoading(t *testing.T) {
	store, auth, ensurer := newTestStore(t)
	store.Start(context.Background(), "")

	for i := 0; i < 3; i++ {
		if _, err := auth.SignInWithPassword(context.Background(), "jane@example.com", "secret"); err != nil {
			t.Fatalf("SignInWithPassword: %v", err)
		}
		if got := store.State(); got != StateAuthenticated {
			t.Fatalf("expected authenticated, got %s", got)
		}
	}
	// Drain pending syncs so the cleanup does not race the channel.
	for i := 0; i < 3; i++ {
		ensurer.waitForSync(t)
	}
}

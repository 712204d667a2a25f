package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

// exerciseBackend records each query string sent to the exercises table and
// answers with a fixed catalog.
type exerciseBackend struct {
	mu      sync.Mutex
	queries []url.Values
}

func (b *exerciseBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/exercises") {
			http.NotFound(w, r)
			return
		}
		b.mu.Lock()
		b.queries = append(b.queries, r.URL.Query())
		b.mu.Unlock()

		if strings.Contains(r.Header.Get("Accept"), "pgrst.object") {
			json.NewEncoder(w).Encode(models.Exercise{ID: "ex-1", Name: "Bench Press", Category: "chest"})
			return
		}
		json.NewEncoder(w).Encode([]models.Exercise{
			{ID: "ex-1", Name: "Bench Press", Category: "chest"},
			{ID: "ex-2", Name: "Overhead Press", Category: "shoulders"},
		})
	})
}

func (b *exerciseBackend) lastQuery(t *testing.T) url.Values {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queries) == 0 {
		t.Fatal("expected a catalog request")
	}
	return b.queries[len(b.queries)-1]
}

func newTestExerciseService(t *testing.T, backend *exerciseBackend) *ExerciseService {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client := supabase.NewClient(server.URL, "anon-key", "", "user-uploads")
	return NewExerciseService(client, NewSchemaService(client))
}

func TestGetExercisesSortsByName(t *testing.T) {
	backend := &exerciseBackend{}
	svc := newTestExerciseService(t, backend)

	exercises := svc.GetExercises(context.Background())
	if len(exercises) != 2 {
		t.Fatalf("expected the full catalog, got %d entries", len(exercises))
	}
	if got := backend.lastQuery(t).Get("order"); got != "name.asc" {
		t.Fatalf("expected name-ascending order, got %q", got)
	}
}

func TestGetExercisesByCategoryFilters(t *testing.T) {
	backend := &exerciseBackend{}
	svc := newTestExerciseService(t, backend)

	svc.GetExercisesByCategory(context.Background(), "chest")
	if got := backend.lastQuery(t).Get("category"); got != "eq.chest" {
		t.Fatalf("expected a category filter, got %q", got)
	}
}

func TestSearchExercisesMatchesNameOrDescription(t *testing.T) {
	backend := &exerciseBackend{}
	svc := newTestExerciseService(t, backend)

	svc.SearchExercises(context.Background(), "press")
	got := backend.lastQuery(t).Get("or")
	want := "(name.ilike.*press*,description.ilike.*press*)"
	if got != want {
		t.Fatalf("or filter = %q, want %q", got, want)
	}
}

func TestSearchExercisesStripsFilterSyntax(t *testing.T) {
	backend := &exerciseBackend{}
	svc := newTestExerciseService(t, backend)

	svc.SearchExercises(context.Background(), "press,)(desc.ilike.*%")
	got := backend.lastQuery(t).Get("or")
	want := "(name.ilike.*pressdesc.ilike.*,description.ilike.*pressdesc.ilike.*)"
	if got != want {
		t.Fatalf("or filter = %q, want %q", got, want)
	}
}

func TestGetExerciseMissingRowIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
		})
	}))
	t.Cleanup(server.Close)
	client := supabase.NewClient(server.URL, "anon-key", "", "user-uploads")
	svc := NewExerciseService(client, NewSchemaService(client))

	if exercise := svc.GetExercise(context.Background(), "missing"); exercise != nil {
		t.Fatalf("expected nil for a missing exercise, got %+v", exercise)
	}
}

package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
)

func TestUpdateCoachNotePatchesOnlyEditableColumns(t *testing.T) {
	var (
		mu        sync.Mutex
		patchBody []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/coach_notes") {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodPatch {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			patchBody = body
			mu.Unlock()
		}
		json.NewEncoder(w).Encode(models.CoachNote{
			ID: "note-1", UserID: "user-1", CoachID: "coach-1",
			Title: "Form check", Content: "Keep the bar closer",
		})
	}))
	t.Cleanup(server.Close)

	client := supabase.NewClient(server.URL, "anon-key", "service-key", "user-uploads")
	svc := NewCoachNoteService(client, NewSchemaService(client))

	note := svc.UpdateCoachNote(context.Background(), "note-1", "Form check", "Keep the bar closer")
	if note == nil {
		t.Fatal("expected the updated note back")
	}

	mu.Lock()
	defer mu.Unlock()
	var patch map[string]any
	if err := json.Unmarshal(patchBody, &patch); err != nil {
		t.Fatalf("decode patch body: %v", err)
	}
	for _, key := range []string{"title", "content", "updated_at"} {
		if _, ok := patch[key]; !ok {
			t.Errorf("expected %q in the patch", key)
		}
	}
	for _, key := range []string{"id", "user_id", "coach_id", "created_at", "coach"} {
		if _, ok := patch[key]; ok {
			t.Errorf("column %q must not travel back in the patch", key)
		}
	}
	if len(patch) != 3 {
		t.Fatalf("expected exactly title, content and updated_at, got %v", patch)
	}
}

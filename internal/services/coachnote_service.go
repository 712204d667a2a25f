package services

import (
	"context"
	"log"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// CoachNoteService serves notes written by coaches about members.
type CoachNoteService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewCoachNoteService(db *supabase.Client, schema *SchemaService) *CoachNoteService {
	return &CoachNoteService{db: db, schema: schema}
}

const coachNoteColumns = "*,coach:profiles!coach_id(first_name,last_name)"

func (s *CoachNoteService) GetUserCoachNotes(ctx context.Context, userID string) []models.CoachNote {
	notes, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.CoachNote, error) {
		var list []models.CoachNote
		err := s.db.From("coach_notes").
			Select(coachNoteColumns).
			Eq("user_id", userID).
			Order("created_at", false).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching coach notes for %s: %v", userID, err)
		}
		return nil
	}
	return notes
}

func (s *CoachNoteService) GetCoachNote(ctx context.Context, noteID string) *models.CoachNote {
	note, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.CoachNote, error) {
		var note models.CoachNote
		err := s.db.From("coach_notes").Select(coachNoteColumns).Eq("id", noteID).Single().Execute(ctx, &note)
		return &note, err
	})
	if err != nil {
		log.Printf("error fetching coach note %s: %v", noteID, err)
		return nil
	}
	return note
}

func (s *CoachNoteService) CreateCoachNote(ctx context.Context, note models.CoachNote) *models.CoachNote {
	note.CreatedAt = isoNow()
	note.UpdatedAt = note.CreatedAt

	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.CoachNote, error) {
		var created models.CoachNote
		err := s.db.From("coach_notes").Insert([]models.CoachNote{note}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error creating coach note: %v", err)
		}
		return nil
	}
	return created
}

// UpdateCoachNote patches only the editable columns; ownership and identity
// columns never travel back to the row.
func (s *CoachNoteService) UpdateCoachNote(ctx context.Context, noteID, title, content string) *models.CoachNote {
	patch := struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		UpdatedAt string `json:"updated_at"`
	}{Title: title, Content: content, UpdatedAt: isoNow()}

	updated, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.CoachNote, error) {
		var updated models.CoachNote
		err := s.db.From("coach_notes").Update(patch).Eq("id", noteID).Single().Execute(ctx, &updated)
		return &updated, err
	})
	if err != nil {
		log.Printf("error updating coach note %s: %v", noteID, err)
		return nil
	}
	return updated
}

func (s *CoachNoteService) DeleteCoachNote(ctx context.Context, noteID string) bool {
	_, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.From("coach_notes").Delete().Eq("id", noteID).Execute(ctx, nil)
	})
	if err != nil {
		log.Printf("error deleting coach note %s: %v", noteID, err)
		return false
	}
	return true
}

package services

import (
	"context"
	"log"
	"path"
	"time"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
	"github.com/google/uuid"
)

// ProgressService manages progress photos: an object in the storage bucket
// plus a row pointing at it. Reads and deletes are scoped to the owning user
// twice over: an explicit user filter, and the caller's own token on the
// request so row-level security applies as well.
type ProgressService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewProgressService(db *supabase.Client, schema *SchemaService) *ProgressService {
	return &ProgressService{db: db, schema: schema}
}

// UploadProgressPhoto stores the image then records the row. The upload runs
// without a read budget; large images need the transport's full timeout.
func (s *ProgressService) UploadProgressPhoto(ctx context.Context, userID string, filename string, contentType string, data []byte, weight *float64) *models.ProgressPhoto {
	ext := path.Ext(filename)
	objectPath := "progress-photos/" + userID + "/" + uuid.NewString() + ext

	photoURL, err := s.db.Storage().Upload(ctx, objectPath, data, contentType)
	if err != nil {
		log.Printf("error uploading progress photo for %s: %v", userID, err)
		return nil
	}

	photo := models.ProgressPhoto{
		UserID:    userID,
		PhotoURL:  photoURL,
		Weight:    weight,
		Date:      time.Now().UTC().Format("2006-01-02"),
		CreatedAt: isoNow(),
	}
	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.ProgressPhoto, error) {
		var created models.ProgressPhoto
		err := s.db.From("progress_photos").Insert([]models.ProgressPhoto{photo}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		}
		log.Printf("error recording progress photo for %s: %v", userID, err)
		// The object is already stored; hand back the in-memory shape.
		return &photo
	}
	return created
}

func (s *ProgressService) GetProgressPhotos(ctx context.Context, userID, token string) []models.ProgressPhoto {
	photos, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.ProgressPhoto, error) {
		var list []models.ProgressPhoto
		err := s.db.From("progress_photos").
			Select("*").
			Eq("user_id", userID).
			Order("date", false).
			WithToken(token).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching progress photos for %s: %v", userID, err)
		}
		return nil
	}
	return photos
}

// DeleteProgressPhoto removes one of userID's own photos and, best effort,
// the stored object. A photo owned by someone else looks like a missing row
// and nothing is deleted. The row delete is authoritative; a stranded object
// is acceptable.
func (s *ProgressService) DeleteProgressPhoto(ctx context.Context, userID, token, photoID string) bool {
	photo, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.ProgressPhoto, error) {
		var photo models.ProgressPhoto
		err := s.db.From("progress_photos").
			Select("photo_url").
			Eq("id", photoID).
			Eq("user_id", userID).
			WithToken(token).
			Single().
			Execute(ctx, &photo)
		return &photo, err
	})
	if err != nil {
		log.Printf("error fetching progress photo %s for delete: %v", photoID, err)
		return false
	}

	if objectPath, pathErr := s.db.Storage().ObjectPathFromURL(photo.PhotoURL); pathErr == nil {
		if err := s.db.Storage().Remove(ctx, objectPath); err != nil {
			log.Printf("error removing stored object %s: %v", objectPath, err)
		}
	}

	_, err = safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.From("progress_photos").
			Delete().
			Eq("id", photoID).
			Eq("user_id", userID).
			WithToken(token).
			Execute(ctx, nil)
	})
	if err != nil {
		log.Printf("error deleting progress photo %s: %v", photoID, err)
		return false
	}
	return true
}

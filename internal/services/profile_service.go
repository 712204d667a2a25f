package services

import (
	"context"
	"log"
	"time"

	"github.com/Mhmdshannon/Spark/internal/cache"
	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

const profileCacheTTL = 10 * time.Second

// Placeholder values when identity metadata is unavailable.
const (
	placeholderFirstName = "New"
	placeholderLastName  = "User"
	placeholderEmail     = "unknown@example.com"
)

// ProfileService is the entity access module for profiles. Reads are cached
// per user id; a missing row is repaired by synthesizing a default profile
// so callers always see a usable record.
type ProfileService struct {
	db     *supabase.Client
	schema *SchemaService
	cache  *cache.Cache[*models.Profile]
}

func NewProfileService(db *supabase.Client, schema *SchemaService) *ProfileService {
	return &ProfileService{
		db:     db,
		schema: schema,
		cache:  cache.New[*models.Profile](profileCacheTTL),
	}
}

// isoNow formats timestamps at second precision, matching the rows already
// in the store.
func isoNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// GetProfile returns the profile for an identity, creating a default row
// when none exists. Data-access failures degrade to nil; only permission
// denials surface as errors.
func (s *ProfileService) GetProfile(ctx context.Context, identity *supabase.User) (*models.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, nil
	}
	if profile, ok := s.cache.Get(identity.ID); ok {
		return profile, nil
	}

	profile, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.Profile, error) {
		var p models.Profile
		err := s.db.From("profiles").Select("*").Eq("user_id", identity.ID).Single().Execute(ctx, &p)
		return &p, err
	})
	if err == nil {
		s.cache.Set(identity.ID, profile)
		return profile, nil
	}

	if supabase.IsMissingRelation(err) {
		if !s.schema.EnsureInitialized(ctx) {
			return nil, nil
		}
		return s.createDefault(ctx, identity), nil
	}
	if supabase.IsNoRows(err) {
		return s.createDefault(ctx, identity), nil
	}
	if supabase.IsPermission(err) {
		log.Printf("permission error fetching profile for %s: %v (check row-level security policies)", identity.ID, err)
		return nil, err
	}

	log.Printf("error fetching profile for %s: %v", identity.ID, err)
	return nil, nil
}

// UpdateProfile applies a partial update with upsert semantics: the
// optimistic update runs first; a missing row falls back to a create with
// the merged data. The cache entry is dropped before anything touches the
// store.
func (s *ProfileService) UpdateProfile(ctx context.Context, identity *supabase.User, update models.ProfileUpdate) (*models.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, nil
	}
	s.cache.Invalidate(identity.ID)

	type patch struct {
		models.ProfileUpdate
		UpdatedAt string `json:"updated_at"`
	}
	profile, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.Profile, error) {
		var p models.Profile
		err := s.db.From("profiles").
			Update(patch{ProfileUpdate: update, UpdatedAt: isoNow()}).
			Eq("user_id", identity.ID).
			Single().
			Execute(ctx, &p)
		return &p, err
	})
	if err == nil {
		s.cache.Set(identity.ID, profile)
		return profile, nil
	}

	if supabase.IsMissingRelation(err) {
		if !s.schema.EnsureInitialized(ctx) {
			return nil, nil
		}
		return s.CreateProfile(ctx, mergeUpdate(identity, update)), nil
	}
	if supabase.IsNoRows(err) {
		return s.CreateProfile(ctx, mergeUpdate(identity, update)), nil
	}
	if supabase.IsPermission(err) {
		log.Printf("permission error updating profile for %s: %v (check row-level security policies)", identity.ID, err)
		return nil, err
	}

	log.Printf("error updating profile for %s: %v", identity.ID, err)
	return nil, nil
}

// CreateProfile inserts a profile, filling required fields with placeholder
// defaults. Insert failures other than a missing table degrade to the
// in-memory shape so the caller is never blocked by a write it cannot
// recover from.
func (s *ProfileService) CreateProfile(ctx context.Context, profile models.Profile) *models.Profile {
	if profile.FirstName == "" {
		profile.FirstName = placeholderFirstName
	}
	if profile.LastName == "" {
		profile.LastName = placeholderLastName
	}
	if profile.Email == "" {
		profile.Email = placeholderEmail
	}
	if profile.Role == "" {
		profile.Role = models.RoleMember
	}
	profile.CreatedAt = isoNow()
	profile.UpdatedAt = profile.CreatedAt

	created, err := s.insertProfile(ctx, profile)
	if err == nil {
		s.cache.Set(profile.UserID, created)
		return created
	}

	if supabase.IsMissingRelation(err) {
		if s.schema.EnsureInitialized(ctx) {
			if retried, retryErr := s.insertProfile(ctx, profile); retryErr == nil {
				s.cache.Set(profile.UserID, retried)
				return retried
			} else {
				log.Printf("error creating profile after initialization: %v", retryErr)
			}
		}
		return &profile
	}
	if supabase.IsPermission(err) {
		log.Printf("permission error creating profile: %v (check row-level security policies)", err)
		return &profile
	}

	log.Printf("error creating profile: %v", err)
	return &profile
}

func (s *ProfileService) insertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	return safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.Profile, error) {
		var created models.Profile
		err := s.db.From("profiles").
			Insert([]models.Profile{profile}).
			Single().
			Execute(ctx, &created)
		return &created, err
	})
}

func (s *ProfileService) createDefault(ctx context.Context, identity *supabase.User) *models.Profile {
	return s.CreateProfile(ctx, models.Profile{
		UserID:    identity.ID,
		FirstName: identity.MetadataString("first_name"),
		LastName:  identity.MetadataString("last_name"),
		Email:     identity.Email,
		Role:      models.RoleMember,
	})
}

func mergeUpdate(identity *supabase.User, update models.ProfileUpdate) models.Profile {
	profile := models.Profile{
		UserID:    identity.ID,
		FirstName: identity.MetadataString("first_name"),
		LastName:  identity.MetadataString("last_name"),
		Email:     identity.Email,
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		profile.LastName = *update.LastName
	}
	if update.Email != nil {
		profile.Email = *update.Email
	}
	if update.Role != nil {
		profile.Role = *update.Role
	}
	profile.Age = update.Age
	profile.Height = update.Height
	profile.Weight = update.Weight
	profile.TargetWeight = update.TargetWeight
	profile.PrimaryGoal = update.PrimaryGoal
	profile.WeeklyWorkouts = update.WeeklyWorkouts
	profile.Coach = update.Coach
	return profile
}

// FindProfileByEmail is an admin lookup; no default synthesis.
func (s *ProfileService) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.Profile, error) {
		var p models.Profile
		err := s.db.From("profiles").Select("*").Eq("email", email).Single().Execute(ctx, &p)
		return &p, err
	})
}

// ListProfiles returns every profile for the admin console; failures
// degrade to an empty list.
func (s *ProfileService) ListProfiles(ctx context.Context) []models.Profile {
	profiles, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.Profile, error) {
		var list []models.Profile
		err := s.db.From("profiles").Select("*").Order("created_at", false).Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error listing profiles: %v", err)
		}
		return nil
	}
	return profiles
}

// TestDatabaseSetup verifies the profiles table is reachable.
func (s *ProfileService) TestDatabaseSetup(ctx context.Context) InitResult {
	_, err := safecall.Try(ctx, safecall.SetupBudget, func(ctx context.Context) (struct{}, error) {
		var rows []map[string]any
		err := s.db.From("profiles").Select("id").Limit(1).Execute(ctx, &rows)
		return struct{}{}, err
	})
	if err != nil {
		return InitResult{Success: false, Message: "Database setup error: " + err.Error()}
	}
	return InitResult{Success: true, Message: "Database setup verified successfully"}
}

// InvalidateProfile drops the cached entry for a user id.
func (s *ProfileService) InvalidateProfile(userID string) {
	s.cache.Invalidate(userID)
}

package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"golang.org/x/sync/singleflight"
)

const profileSyncCooldown = 10 * time.Second

// ProfileUpserter is the slice of ProfileService the synchronizer needs.
type ProfileUpserter interface {
	UpdateProfile(ctx context.Context, identity *supabase.User, update models.ProfileUpdate) (*models.Profile, error)
}

// ProfileSynchronizer guarantees a profile row exists for an authenticated
// identity. Auth-change notifications fire in bursts, so concurrent calls
// for the same identity coalesce into one flight and repeat calls within
// the cooldown are suppressed entirely.
type ProfileSynchronizer struct {
	profiles ProfileUpserter
	group    singleflight.Group
	cooldown time.Duration
	now      func() time.Time

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func NewProfileSynchronizer(profiles ProfileUpserter) *ProfileSynchronizer {
	return &ProfileSynchronizer{
		profiles: profiles,
		cooldown: profileSyncCooldown,
		now:      time.Now,
		lastRun:  make(map[string]time.Time),
	}
}

// EnsureProfile upserts the identity's profile with its metadata names,
// email and the member role. Failures are logged and returned for a
// non-fatal notification; the identity stays authenticated regardless.
func (s *ProfileSynchronizer) EnsureProfile(ctx context.Context, identity *supabase.User) error {
	if identity == nil || identity.ID == "" {
		return nil
	}

	s.mu.Lock()
	if last, ok := s.lastRun[identity.ID]; ok && s.now().Sub(last) < s.cooldown {
		s.mu.Unlock()
		return nil
	}
	s.lastRun[identity.ID] = s.now()
	s.mu.Unlock()

	_, err, _ := s.group.Do(identity.ID, func() (any, error) {
		firstName := identity.MetadataString("first_name")
		lastName := identity.MetadataString("last_name")
		email := identity.Email
		role := models.RoleMember
		_, err := s.profiles.UpdateProfile(ctx, identity, models.ProfileUpdate{
			FirstName: &firstName,
			LastName:  &lastName,
			Email:     &email,
			Role:      &role,
		})
		return nil, err
	})
	if err != nil {
		log.Printf("error ensuring profile exists for %s: %v", identity.ID, err)
	}
	return err
}

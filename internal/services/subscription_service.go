package services

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// SubscriptionService reads and upserts membership subscriptions. A user may
// hold several rows; the current one is the row with the latest end date.
type SubscriptionService struct {
	db     *supabase.Client
	schema *SchemaService
}

func NewSubscriptionService(db *supabase.Client, schema *SchemaService) *SubscriptionService {
	return &SubscriptionService{db: db, schema: schema}
}

// GetUserSubscription returns the current subscription, or nil when the user
// has none. Absence is an expected answer here, not a repair trigger.
func (s *SubscriptionService) GetUserSubscription(ctx context.Context, userID string) *models.Subscription {
	sub, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (*models.Subscription, error) {
		var sub models.Subscription
		err := s.db.From("subscriptions").
			Select("*").
			Eq("user_id", userID).
			Order("end_date", false).
			Limit(1).
			Single().
			Execute(ctx, &sub)
		return &sub, err
	})
	if err == nil {
		return sub
	}
	if supabase.IsMissingRelation(err) {
		s.schema.EnsureInitialized(ctx)
		return nil
	}
	if supabase.IsNoRows(err) {
		return nil
	}
	log.Printf("error fetching subscription for %s: %v", userID, err)
	return nil
}

// CreateOrUpdateSubscription upserts against the user's current row: update
// when one exists, insert otherwise. Timestamps are stamped here.
func (s *SubscriptionService) CreateOrUpdateSubscription(ctx context.Context, sub models.Subscription) *models.Subscription {
	existingID, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) (string, error) {
		var row struct {
			ID string `json:"id"`
		}
		err := s.db.From("subscriptions").
			Select("id").
			Eq("user_id", sub.UserID).
			Order("end_date", false).
			Limit(1).
			Single().
			Execute(ctx, &row)
		return row.ID, err
	})
	switch {
	case err == nil:
	case supabase.IsNoRows(err):
		existingID = ""
	case supabase.IsMissingRelation(err):
		s.schema.EnsureInitialized(ctx)
		existingID = ""
	default:
		log.Printf("error checking existing subscription for %s: %v", sub.UserID, err)
		return nil
	}

	if existingID != "" {
		sub.UpdatedAt = isoNow()
		updated, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.Subscription, error) {
			var updated models.Subscription
			err := s.db.From("subscriptions").Update(sub).Eq("id", existingID).Single().Execute(ctx, &updated)
			return &updated, err
		})
		if err != nil {
			log.Printf("error updating subscription %s: %v", existingID, err)
			return nil
		}
		return updated
	}

	sub.CreatedAt = isoNow()
	sub.UpdatedAt = sub.CreatedAt
	created, err := safecall.Try(ctx, safecall.WriteBudget, func(ctx context.Context) (*models.Subscription, error) {
		var created models.Subscription
		err := s.db.From("subscriptions").Insert([]models.Subscription{sub}).Single().Execute(ctx, &created)
		return &created, err
	})
	if err != nil {
		log.Printf("error creating subscription for %s: %v", sub.UserID, err)
		return nil
	}
	return created
}

// GetAllSubscriptions lists every subscription with owner names for the
// admin console.
func (s *SubscriptionService) GetAllSubscriptions(ctx context.Context) []models.Subscription {
	subs, err := safecall.Try(ctx, safecall.ReadBudget, func(ctx context.Context) ([]models.Subscription, error) {
		var list []models.Subscription
		err := s.db.From("subscriptions").
			Select("*,profile:profiles(first_name,last_name,email)").
			Order("end_date", false).
			Execute(ctx, &list)
		return list, err
	})
	if err != nil {
		if supabase.IsMissingRelation(err) {
			s.schema.EnsureInitialized(ctx)
		} else {
			log.Printf("error fetching all subscriptions: %v", err)
		}
		return nil
	}
	return subs
}

// DaysLeft counts whole days from today to the end date, never negative.
func DaysLeft(endDate string) int {
	return DaysLeftAt(endDate, time.Now())
}

func DaysLeftAt(endDate string, today time.Time) int {
	end, ok := parseDay(endDate)
	if !ok {
		return 0
	}
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	diff := end.Sub(todayStart).Hours() / 24
	days := int(math.Ceil(diff))
	if days < 0 {
		return 0
	}
	return days
}

// IsSubscriptionActive reports whether the subscription is marked active and
// has not passed its end date.
func IsSubscriptionActive(sub *models.Subscription) bool {
	return IsSubscriptionActiveAt(sub, time.Now())
}

func IsSubscriptionActiveAt(sub *models.Subscription, today time.Time) bool {
	if sub == nil || sub.Status != models.SubscriptionActive {
		return false
	}
	end, ok := parseDay(sub.EndDate)
	if !ok {
		return false
	}
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !end.Before(todayStart)
}

func parseDay(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

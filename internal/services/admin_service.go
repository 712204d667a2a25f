package services

import (
	"context"
	"log"

	"github.com/Mhmdshannon/Spark/internal/models"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
)

// AdminService covers operator tasks that need the service key.
type AdminService struct {
	db       *supabase.Client
	profiles *ProfileService
	schema   *SchemaService
}

func NewAdminService(db *supabase.Client, profiles *ProfileService, schema *SchemaService) *AdminService {
	return &AdminService{db: db, profiles: profiles, schema: schema}
}

// MakeUserAdmin promotes the identity registered under email to the admin
// role, creating its profile row when one does not exist yet.
func (s *AdminService) MakeUserAdmin(ctx context.Context, email string) InitResult {
	var target *supabase.User
	users, err := s.db.Auth().AdminListUsers(ctx)
	if err != nil {
		// Without a service key the identity listing is unavailable; fall
		// back to the profile row, which exists once the user signed in.
		log.Printf("error listing users for admin promotion: %v", err)
		profile, lookupErr := s.profiles.FindProfileByEmail(ctx, email)
		if lookupErr != nil || profile == nil {
			return InitResult{Success: false, Message: "Could not locate user " + email}
		}
		target = &supabase.User{ID: profile.UserID, Email: profile.Email}
	} else {
		for i := range users {
			if users[i].Email == email {
				target = &users[i]
				break
			}
		}
	}
	if target == nil {
		return InitResult{Success: false, Message: "No user registered with email " + email}
	}

	role := models.RoleAdmin
	profile, err := s.profiles.UpdateProfile(ctx, target, models.ProfileUpdate{Role: &role})
	if err != nil {
		return InitResult{Success: false, Message: "Could not update role: " + err.Error()}
	}
	if profile == nil || profile.Role != models.RoleAdmin {
		return InitResult{Success: false, Message: "Role update did not take effect"}
	}
	s.profiles.InvalidateProfile(target.ID)
	return InitResult{Success: true, Message: "User " + email + " is now an admin"}
}

// TestConnection verifies the backend answers at all, independent of schema
// state. A missing table still proves connectivity.
func (s *AdminService) TestConnection(ctx context.Context) InitResult {
	_, err := safecall.Try(ctx, safecall.SetupBudget, func(ctx context.Context) (struct{}, error) {
		var rows []map[string]any
		err := s.db.From("profiles").Select("id").Limit(1).Execute(ctx, &rows)
		return struct{}{}, err
	})
	if err != nil && !supabase.IsMissingRelation(err) {
		return InitResult{Success: false, Message: "Connection failed: " + err.Error()}
	}
	return InitResult{Success: true, Message: "Connection to backend verified"}
}

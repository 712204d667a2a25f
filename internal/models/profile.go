package models

type Profile struct {
	ID             string   `json:"id,omitempty"`
	UserID         string   `json:"user_id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Age            *int     `json:"age,omitempty"`
	Height         *string  `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	TargetWeight   *float64 `json:"target_weight,omitempty"`
	PrimaryGoal    *string  `json:"primary_goal,omitempty"`
	WeeklyWorkouts *int     `json:"weekly_workouts,omitempty"`
	Coach          *string  `json:"coach,omitempty"`
	Role           string   `json:"role,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleCoach  = "coach"
)

type ProfileUpdate struct {
	FirstName      *string  `json:"first_name,omitempty"`
	LastName       *string  `json:"last_name,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Height         *string  `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	TargetWeight   *float64 `json:"target_weight,omitempty"`
	PrimaryGoal    *string  `json:"primary_goal,omitempty"`
	WeeklyWorkouts *int     `json:"weekly_workouts,omitempty"`
	Coach          *string  `json:"coach,omitempty"`
	Role           *string  `json:"role,omitempty"`
}

package models

type MealPlan struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	Profile     *Profile `json:"profile,omitempty"`
}

type Meal struct {
	ID          string   `json:"id,omitempty"`
	MealPlanID  string   `json:"meal_plan_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	TimeOfDay   string   `json:"time_of_day"`
	Calories    *int     `json:"calories,omitempty"`
	Protein     *float64 `json:"protein,omitempty"`
	Carbs       *float64 `json:"carbs,omitempty"`
	Fat         *float64 `json:"fat,omitempty"`
	Recipe      *string  `json:"recipe,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

func ValidTimeOfDay(value string) bool {
	switch value {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

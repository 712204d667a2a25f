package models

type Subscription struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PlanType  string  `json:"plan_type"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	PaymentID *string `json:"payment_id,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
	Profile   *Profile `json:"profile,omitempty"`
}

const (
	PlanMonthly   = "monthly"
	PlanQuarterly = "quarterly"
	PlanYearly    = "yearly"

	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

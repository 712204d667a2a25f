package models

type ProgressPhoto struct {
	ID        string   `json:"id,omitempty"`
	UserID    string   `json:"user_id"`
	PhotoURL  string   `json:"photo_url"`
	Weight    *float64 `json:"weight,omitempty"`
	Date      string   `json:"date"`
	CreatedAt string   `json:"created_at,omitempty"`
}

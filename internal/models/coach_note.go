package models

type CoachNote struct {
	ID        string   `json:"id,omitempty"`
	UserID    string   `json:"user_id"`
	CoachID   string   `json:"coach_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
	Coach     *Profile `json:"coach,omitempty"`
}

package models

// Exercise is a catalog entry for the exercise library: shared reference
// data, not owned by any user.
type Exercise struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	VideoURL    *string  `json:"video_url,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	Muscles     []string `json:"muscles"`
	Equipment   []string `json:"equipment"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

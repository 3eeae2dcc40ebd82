package saved

import (
	"encoding/json"
	"time"
)

// SavedResume is a structured resume a user chose to keep, augmented with
// ownership and timestamps. The resume body is stored as raw JSON so the
// saved copy survives schema drift in the parsed shape.
type SavedResume struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Resume      json.RawMessage `json:"resume_data"`
	SavedAt     time.Time       `json:"savedAt"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

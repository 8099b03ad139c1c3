package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"-"`
	Created  time.Time `json:"created_at"`
}

// Workflow is a user's in-progress home-buying session: the property they
// picked plus the documents they have uploaded so far, in upload order.
type Workflow struct {
	SelectedProperty json.RawMessage `json:"selectedProperty,omitempty"`
	Steps            []string        `json:"steps"`
	Documents        []Document      `json:"documents"`
}

type Document struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Step       string    `json:"step"`
	UploadedAt time.Time `json:"uploadedAt"`
}

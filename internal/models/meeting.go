package models

import "time"

// Meeting represents a recorded meeting with optional free-text notes.
// Summary stays null until the summarize flow fills it.
type Meeting struct {
	ID        int       `json:"id"`
	ProjectID *int      `json:"projectId"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes"`
	Summary   *string   `json:"summary"`
}

// InsertMeeting is the payload accepted when creating a meeting.
// Summary is server-managed and not accepted here.
type InsertMeeting struct {
	ProjectID *int      `json:"projectId"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Notes     *string   `json:"notes"`
}

// Validate checks required fields
func (in *InsertMeeting) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	return nil
}

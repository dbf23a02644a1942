package models

import (
	"encoding/json"
	"time"
)

// Report types
const (
	ReportTypeWeekly  = "weekly"
	ReportTypeMonthly = "monthly"
)

var validReportTypes = map[string]bool{
	ReportTypeWeekly:  true,
	ReportTypeMonthly: true,
}

// Report holds a generated project report. Content is the JSON encoding
// of an ordered []ReportSection.
type Report struct {
	ID          int       `json:"id"`
	ProjectID   *int      `json:"projectId"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// InsertReport is the payload accepted when persisting a report
type InsertReport struct {
	ProjectID   *int      `json:"projectId"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Validate checks required fields and enum domains
func (in *InsertReport) Validate() error {
	if !validReportTypes[in.Type] {
		return &ValidationError{Field: "type", Message: "type must be one of: weekly, monthly"}
	}
	if in.Content == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if in.GeneratedAt.IsZero() {
		return &ValidationError{Field: "generatedAt", Message: "generatedAt is required"}
	}
	return nil
}

// ReportSection is one titled block of a generated report
type ReportSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// EncodeReportContent marshals sections into the persisted content string
func EncodeReportContent(sections []ReportSection) (string, error) {
	data, err := json.Marshal(sections)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WeeklyReportContent is the structured output the generator returns for
// a weekly report request
type WeeklyReportContent struct {
	Summary           string   `json:"summary"`
	Accomplishments   []string `json:"accomplishments"`
	Challenges        []string `json:"challenges"`
	Priorities        []string `json:"priorities"`
	MeetingHighlights []string `json:"meetingHighlights"`
}

// Sections converts the generator output into the persisted section shape
func (w *WeeklyReportContent) Sections() []ReportSection {
	return []ReportSection{
		{Title: "Summary", Items: []string{w.Summary}},
		{Title: "Key Accomplishments", Items: w.Accomplishments},
		{Title: "Challenges", Items: w.Challenges},
		{Title: "Next Week's Priorities", Items: w.Priorities},
		{Title: "Meeting Highlights", Items: w.MeetingHighlights},
	}
}

// MeetingSummaryContent is the structured output the generator returns for
// a meeting-notes summarization request
type MeetingSummaryContent struct {
	Summary     string   `json:"summary"`
	Decisions   []string `json:"decisions"`
	ActionItems []string `json:"actionItems"`
}

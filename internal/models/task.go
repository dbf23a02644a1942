package models

import (
	"encoding/json"
	"time"
)

// Task statuses
const (
	TaskStatusCompleted = "completed"
	TaskStatusPending   = "pending"
	TaskStatusDelayed   = "delayed"
)

var validTaskStatuses = map[string]bool{
	TaskStatusCompleted: true,
	TaskStatusPending:   true,
	TaskStatusDelayed:   true,
}

// Task represents a unit of work, optionally attached to a project
type Task struct {
	ID          int        `json:"id"`
	ProjectID   *int       `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

// InsertTask is the payload accepted when creating a task
type InsertTask struct {
	ProjectID   *int       `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

// Validate checks required fields and enum domains, then applies defaults
func (in *InsertTask) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Status == "" {
		in.Status = TaskStatusPending
	}
	if !validTaskStatuses[in.Status] {
		return &ValidationError{Field: "status", Message: "status must be one of: completed, pending, delayed"}
	}
	return nil
}

// TaskPatch is a partial update for a task. Pointer fields distinguish
// "absent" from a provided value; json.RawMessage fields additionally
// distinguish an explicit null, which clears the nullable column.
type TaskPatch struct {
	ProjectID   json.RawMessage `json:"projectId"`
	Title       *string         `json:"title"`
	Description json.RawMessage `json:"description"`
	Status      *string         `json:"status"`
	DueDate     json.RawMessage `json:"dueDate"`
}

// Validate checks that provided fields are well formed
func (p *TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return &ValidationError{Field: "title", Message: "title cannot be empty"}
	}
	if p.Status != nil && !validTaskStatuses[*p.Status] {
		return &ValidationError{Field: "status", Message: "status must be one of: completed, pending, delayed"}
	}
	if len(p.ProjectID) > 0 {
		var v *int
		if err := json.Unmarshal(p.ProjectID, &v); err != nil {
			return &ValidationError{Field: "projectId", Message: "projectId must be a number or null"}
		}
	}
	if len(p.Description) > 0 {
		var v *string
		if err := json.Unmarshal(p.Description, &v); err != nil {
			return &ValidationError{Field: "description", Message: "description must be a string or null"}
		}
	}
	if len(p.DueDate) > 0 {
		var v *time.Time
		if err := json.Unmarshal(p.DueDate, &v); err != nil {
			return &ValidationError{Field: "dueDate", Message: "dueDate must be a timestamp or null"}
		}
	}
	return nil
}

// ProjectIDValue returns the patched projectId and whether the field was present
func (p *TaskPatch) ProjectIDValue() (*int, bool) {
	if len(p.ProjectID) == 0 {
		return nil, false
	}
	var v *int
	// validated in Validate
	_ = json.Unmarshal(p.ProjectID, &v)
	return v, true
}

// Apply merges the patch onto a task. Fields absent from the patch are
// untouched; explicit nulls clear nullable fields.
func (p *TaskPatch) Apply(t *Task) {
	if v, ok := p.ProjectIDValue(); ok {
		t.ProjectID = v
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if len(p.Description) > 0 {
		var v *string
		_ = json.Unmarshal(p.Description, &v)
		t.Description = v
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if len(p.DueDate) > 0 {
		var v *time.Time
		_ = json.Unmarshal(p.DueDate, &v)
		t.DueDate = v
	}
}

package models

// Project statuses
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
)

var validProjectStatuses = map[string]bool{
	ProjectStatusActive:    true,
	ProjectStatusCompleted: true,
	ProjectStatusOnHold:    true,
}

// Project represents a tracked project
type Project struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// InsertProject is the payload accepted when creating a project.
// The store assigns the id and fills the status default.
type InsertProject struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// Validate checks required fields and enum domains, then applies defaults
func (in *InsertProject) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if in.Status == "" {
		in.Status = ProjectStatusActive
	}
	if !validProjectStatuses[in.Status] {
		return &ValidationError{Field: "status", Message: "status must be one of: active, completed, on_hold"}
	}
	return nil
}

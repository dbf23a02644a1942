package storage

import (
	"context"
	"errors"

	"projectpulse/internal/models"
)

// ErrNotFound is returned when a referenced id is absent from a collection.
// The API layer maps it to HTTP 404.
var ErrNotFound = errors.New("not found")

// Store is the authoritative holder of all entity collections.
// List operations return entities in insertion order; the optional projectID
// filter returns only entities whose projectId equals the filter (entities
// with a null projectId never match a filter).
type Store interface {
	// Projects
	Projects(ctx context.Context) ([]models.Project, error)
	Project(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, in models.InsertProject) (*models.Project, error)

	// Tasks
	Tasks(ctx context.Context, projectID *int) ([]models.Task, error)
	Task(ctx context.Context, id int) (*models.Task, error)
	CreateTask(ctx context.Context, in models.InsertTask) (*models.Task, error)
	UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (*models.Task, error)
	// DeleteTask is idempotent: deleting an absent id is a no-op
	DeleteTask(ctx context.Context, id int) error

	// Meetings
	Meetings(ctx context.Context, projectID *int) ([]models.Meeting, error)
	Meeting(ctx context.Context, id int) (*models.Meeting, error)
	CreateMeeting(ctx context.Context, in models.InsertMeeting) (*models.Meeting, error)
	SetMeetingSummary(ctx context.Context, id int, summary string) (*models.Meeting, error)

	// Reports
	Reports(ctx context.Context, projectID *int) ([]models.Report, error)
	CreateReport(ctx context.Context, in models.InsertReport) (*models.Report, error)

	Close() error
}

package storage

import (
	"context"
	"sort"
	"sync"

	"projectpulse/internal/models"
)

// MemoryStore keeps all collections in process memory. State lives from
// construction to process exit; nothing survives a restart.
//
// A single RWMutex guards all four collections. Create and update are
// read-modify-write sequences, so they hold the write lock for the whole
// operation. Callers must not hold the lock across generator network calls
// (they don't: the store is only touched before and after the call).
type MemoryStore struct {
	mu sync.RWMutex

	projects map[int]models.Project
	tasks    map[int]models.Task
	meetings map[int]models.Meeting
	reports  map[int]models.Report

	// per-collection counters; monotonic, never rolled back
	nextProjectID int
	nextTaskID    int
	nextMeetingID int
	nextReportID  int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:      make(map[int]models.Project),
		tasks:         make(map[int]models.Task),
		meetings:      make(map[int]models.Meeting),
		reports:       make(map[int]models.Report),
		nextProjectID: 1,
		nextTaskID:    1,
		nextMeetingID: 1,
		nextReportID:  1,
	}
}

// Projects returns all projects in insertion order
func (s *MemoryStore) Projects(ctx context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sortByID(out, func(p models.Project) int { return p.ID })
	return out, nil
}

// Project returns one project or ErrNotFound
func (s *MemoryStore) Project(ctx context.Context, id int) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// CreateProject assigns the next id and stores the project
func (s *MemoryStore) CreateProject(ctx context.Context, in models.InsertProject) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Project{
		ID:          s.nextProjectID,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
	}
	s.nextProjectID++
	s.projects[p.ID] = p
	return &p, nil
}

// Tasks returns tasks, optionally filtered by projectId. Tasks with a null
// projectId are excluded from any filtered list.
func (s *MemoryStore) Tasks(ctx context.Context, projectID *int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if projectID != nil && (t.ProjectID == nil || *t.ProjectID != *projectID) {
			continue
		}
		out = append(out, t)
	}
	sortByID(out, func(t models.Task) int { return t.ID })
	return out, nil
}

// Task returns one task or ErrNotFound
func (s *MemoryStore) Task(ctx context.Context, id int) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// CreateTask assigns the next id and stores the task
func (s *MemoryStore) CreateTask(ctx context.Context, in models.InsertTask) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{
		ID:          s.nextTaskID,
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}
	s.nextTaskID++
	s.tasks[t.ID] = t
	return &t, nil
}

// UpdateTask shallow-merges the patch onto the stored task.
// Fields absent from the patch are untouched.
func (s *MemoryStore) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&t)
	s.tasks[id] = t
	return &t, nil
}

// DeleteTask removes the task; deleting an absent id is a no-op
func (s *MemoryStore) DeleteTask(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
	return nil
}

// Meetings returns meetings, optionally filtered by projectId
func (s *MemoryStore) Meetings(ctx context.Context, projectID *int) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if projectID != nil && (m.ProjectID == nil || *m.ProjectID != *projectID) {
			continue
		}
		out = append(out, m)
	}
	sortByID(out, func(m models.Meeting) int { return m.ID })
	return out, nil
}

// Meeting returns one meeting or ErrNotFound
func (s *MemoryStore) Meeting(ctx context.Context, id int) (*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// CreateMeeting assigns the next id and stores the meeting with a null summary
func (s *MemoryStore) CreateMeeting(ctx context.Context, in models.InsertMeeting) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := models.Meeting{
		ID:        s.nextMeetingID,
		ProjectID: in.ProjectID,
		Title:     in.Title,
		Date:      in.Date,
		Notes:     in.Notes,
		Summary:   nil,
	}
	s.nextMeetingID++
	s.meetings[m.ID] = m
	return &m, nil
}

// SetMeetingSummary stores a generated summary on the meeting.
// Re-summarization overwrites a previous summary.
func (s *MemoryStore) SetMeetingSummary(ctx context.Context, id int, summary string) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.Summary = &summary
	s.meetings[id] = m
	return &m, nil
}

// Reports returns reports, optionally filtered by projectId
func (s *MemoryStore) Reports(ctx context.Context, projectID *int) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if projectID != nil && (r.ProjectID == nil || *r.ProjectID != *projectID) {
			continue
		}
		out = append(out, r)
	}
	sortByID(out, func(r models.Report) int { return r.ID })
	return out, nil
}

// CreateReport assigns the next id and stores the report
func (s *MemoryStore) CreateReport(ctx context.Context, in models.InsertReport) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.Report{
		ID:          s.nextReportID,
		ProjectID:   in.ProjectID,
		Type:        in.Type,
		Content:     in.Content,
		GeneratedAt: in.GeneratedAt,
	}
	s.nextReportID++
	s.reports[r.ID] = r
	return &r, nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

// sortByID orders a slice by ascending id. Ids are assigned monotonically,
// so ascending id order is insertion order.
func sortByID[T any](items []T, id func(T) int) {
	sort.Slice(items, func(i, j int) bool {
		return id(items[i]) < id(items[j])
	})
}

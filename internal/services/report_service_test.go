package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"projectpulse/internal/models"
	"projectpulse/internal/storage"
)

func taskFixture(title string) []models.Task {
	return []models.Task{{ID: 1, Title: title, Status: models.TaskStatusPending}}
}

// fakeGenerator implements Generator without any network
type fakeGenerator struct {
	sections []models.ReportSection
	err      error

	gotTasks    []models.Task
	gotMeetings []models.Meeting
}

func (g *fakeGenerator) SummarizeMeetingNotes(ctx context.Context, notes string) (string, error) {
	return "", errors.New("not used")
}

func (g *fakeGenerator) GenerateWeeklyReport(ctx context.Context, tasks []models.Task, meetings []models.Meeting) ([]models.ReportSection, error) {
	g.gotTasks = tasks
	g.gotMeetings = meetings
	if g.err != nil {
		return nil, g.err
	}
	return g.sections, nil
}

func TestGenerateWeeklyPersistsReport(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	project, _ := store.CreateProject(ctx, models.InsertProject{Name: "Alpha", Status: "active"})
	store.CreateTask(ctx, models.InsertTask{Title: "scoped", Status: "pending", ProjectID: &project.ID})
	store.CreateTask(ctx, models.InsertTask{Title: "unscoped", Status: "pending"})

	generator := &fakeGenerator{sections: []models.ReportSection{
		{Title: "Summary", Items: []string{"On track"}},
	}}
	svc := NewReportService(store, generator)

	report, err := svc.GenerateWeekly(ctx, &project.ID)
	if err != nil {
		t.Fatalf("GenerateWeekly failed: %v", err)
	}
	if report.Type != models.ReportTypeWeekly {
		t.Errorf("Expected weekly type, got %q", report.Type)
	}
	if report.ProjectID == nil || *report.ProjectID != project.ID {
		t.Errorf("Expected project-scoped report, got %v", report.ProjectID)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("Expected generatedAt to be set")
	}

	// only the scoped task reaches the generator
	if len(generator.gotTasks) != 1 || generator.gotTasks[0].Title != "scoped" {
		t.Errorf("Generator saw wrong tasks: %+v", generator.gotTasks)
	}

	var sections []models.ReportSection
	if err := json.Unmarshal([]byte(report.Content), &sections); err != nil {
		t.Fatalf("Content is not a valid section list: %v", err)
	}
	if len(sections) != 1 || sections[0].Title != "Summary" {
		t.Errorf("Unexpected content sections: %+v", sections)
	}
}

func TestGenerateWeeklyFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewReportService(store, &fakeGenerator{err: ErrRateLimited})

	if _, err := svc.GenerateWeekly(ctx, nil); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	reports, _ := store.Reports(ctx, nil)
	if len(reports) != 0 {
		t.Errorf("Report persisted despite generator failure: %+v", reports)
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"projectpulse/internal/models"
	"projectpulse/internal/storage"
)

// ReportService generates and persists weekly reports. It is shared by the
// HTTP endpoint and the scheduled report job.
type ReportService struct {
	store     storage.Store
	generator Generator
}

// NewReportService creates a report service
func NewReportService(store storage.Store, generator Generator) *ReportService {
	return &ReportService{store: store, generator: generator}
}

// GenerateWeekly gathers tasks and meetings (optionally project-scoped),
// invokes the generator, and persists the result as a weekly report.
// The two reads are not snapshotted atomically; concurrent mutations may be
// reflected inconsistently in a single report, which is acceptable here.
// On generator failure nothing is persisted.
func (s *ReportService) GenerateWeekly(ctx context.Context, projectID *int) (*models.Report, error) {
	tasks, err := s.store.Tasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	meetings, err := s.store.Meetings(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meetings: %w", err)
	}

	sections, err := s.generator.GenerateWeeklyReport(ctx, tasks, meetings)
	if err != nil {
		return nil, err
	}

	content, err := models.EncodeReportContent(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report content: %w", err)
	}

	report, err := s.store.CreateReport(ctx, models.InsertReport{
		ProjectID:   projectID,
		Type:        models.ReportTypeWeekly,
		Content:     content,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	GetMetrics().RecordEntityCreated("reports")
	return report, nil
}

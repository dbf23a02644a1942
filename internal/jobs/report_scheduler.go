package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"projectpulse/internal/services"
)

// ReportScheduler runs the weekly report generation on a cron schedule so
// reports exist even when nobody clicks the generate button
type ReportScheduler struct {
	scheduler gocron.Scheduler
	reports   *services.ReportService
	cronExpr  string
}

// NewReportScheduler creates a scheduler for automatic weekly reports
func NewReportScheduler(reports *services.ReportService, cronExpr string) (*ReportScheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &ReportScheduler{
		scheduler: scheduler,
		reports:   reports,
		cronExpr:  cronExpr,
	}, nil
}

// Start registers the weekly report job and starts the scheduler
func (s *ReportScheduler) Start() error {
	log.Println("⏰ Starting report scheduler...")

	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(s.runWeeklyReport),
	)
	if err != nil {
		return fmt.Errorf("failed to register weekly report job: %w", err)
	}

	s.scheduler.Start()
	log.Printf("✅ Report scheduler started (cron: %s)", s.cronExpr)
	return nil
}

// Stop shuts the scheduler down
func (s *ReportScheduler) Stop() error {
	log.Println("⏹️ Stopping report scheduler...")
	return s.scheduler.Shutdown()
}

// runWeeklyReport generates an unscoped weekly report. Failures are logged
// and swallowed; the next scheduled run will try again.
func (s *ReportScheduler) runWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := s.reports.GenerateWeekly(ctx, nil)
	if err != nil {
		log.Printf("⚠️ Scheduled weekly report failed: %v", err)
		return
	}
	log.Printf("✅ Scheduled weekly report generated (id: %d)", report.ID)
}

package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"projectpulse/internal/services"
	"projectpulse/internal/storage"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	store   storage.Store
	reports *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(store storage.Store, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{store: store, reports: reports}
}

// List returns reports, optionally filtered by projectId
// GET /api/reports?projectId=
func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.store.Reports(c.Context(), projectIDFilter(c))
	if err != nil {
		log.Printf("❌ Failed to list reports: %v", err)
		return respondError(c, err, "Failed to list reports")
	}
	return c.JSON(reports)
}

// Generate builds a weekly report from current tasks and meetings,
// optionally scoped to one project
// POST /api/reports/generate
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var req struct {
		ProjectID *int `json:"projectId"`
	}
	// body is optional; an empty body means an unscoped report
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid report request",
			})
		}
	}
	if err := verifyProjectRef(c, h.store, req.ProjectID); err != nil {
		return respondError(c, err, "Invalid report request")
	}

	report, err := h.reports.GenerateWeekly(c.Context(), req.ProjectID)
	if err != nil {
		log.Printf("❌ Failed to generate report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"projectpulse/internal/models"
	"projectpulse/internal/services"
	"projectpulse/internal/storage"
)

// MeetingHandler handles meeting-related HTTP requests, including the
// notes-summarization flow
type MeetingHandler struct {
	store     storage.Store
	generator services.Generator
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(store storage.Store, generator services.Generator) *MeetingHandler {
	return &MeetingHandler{store: store, generator: generator}
}

// List returns meetings, optionally filtered by projectId
// GET /api/meetings?projectId=
func (h *MeetingHandler) List(c *fiber.Ctx) error {
	meetings, err := h.store.Meetings(c.Context(), projectIDFilter(c))
	if err != nil {
		log.Printf("❌ Failed to list meetings: %v", err)
		return respondError(c, err, "Failed to list meetings")
	}
	return c.JSON(meetings)
}

// Create validates and stores a new meeting. The summary always starts null;
// only the summarize flow fills it.
// POST /api/meetings
func (h *MeetingHandler) Create(c *fiber.Ctx) error {
	var in models.InsertMeeting
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting data",
		})
	}
	if err := in.Validate(); err != nil {
		return respondError(c, err, "Invalid meeting data")
	}
	if err := verifyProjectRef(c, h.store, in.ProjectID); err != nil {
		return respondError(c, err, "Invalid meeting data")
	}

	meeting, err := h.store.CreateMeeting(c.Context(), in)
	if err != nil {
		log.Printf("❌ Failed to create meeting: %v", err)
		return respondError(c, err, "Failed to create meeting")
	}

	services.GetMetrics().RecordEntityCreated("meetings")
	return c.JSON(meeting)
}

// Summarize runs the meeting's notes through the generator and persists the
// result. Calling it again re-invokes the generator and overwrites the
// previous summary.
// POST /api/meetings/:id/summarize
func (h *MeetingHandler) Summarize(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid meeting id",
		})
	}

	meeting, err := h.store.Meeting(c.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Meeting not found",
			})
		}
		log.Printf("❌ Failed to load meeting %d: %v", id, err)
		return respondError(c, err, "Failed to summarize meeting")
	}

	notes := ""
	if meeting.Notes != nil {
		notes = *meeting.Notes
	}

	// network round trip; no store lock is held here
	summary, err := h.generator.SummarizeMeetingNotes(c.Context(), notes)
	if err != nil {
		log.Printf("❌ Failed to summarize meeting %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updated, err := h.store.SetMeetingSummary(c.Context(), id, summary)
	if err != nil {
		return respondError(c, err, "Failed to persist summary")
	}
	return c.JSON(updated)
}

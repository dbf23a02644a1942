package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"projectpulse/internal/models"
	"projectpulse/internal/storage"
)

// projectIDFilter parses the projectId query parameter. Absent or
// non-numeric values mean "no filter", never an error.
func projectIDFilter(c *fiber.Ctx) *int {
	raw := c.Query("projectId")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// respondError maps domain errors to their HTTP status: validation failures
// to 400, missing ids to 404, anything else to 500 with the fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Error(),
		})
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fallback + ": not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

// verifyProjectRef checks that a non-null projectId references an existing
// project. Dangling references are rejected as validation failures rather
// than stored silently.
func verifyProjectRef(c *fiber.Ctx, store storage.Store, projectID *int) error {
	if projectID == nil {
		return nil
	}
	if _, err := store.Project(c.Context(), *projectID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.ValidationError{Field: "projectId", Message: "referenced project does not exist"}
		}
		return err
	}
	return nil
}

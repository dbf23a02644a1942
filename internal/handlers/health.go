package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	storageDriver string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storageDriver string) *HealthHandler {
	return &HealthHandler{storageDriver: storageDriver}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"storage":   h.storageDriver,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

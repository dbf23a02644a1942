package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"projectpulse/internal/models"
	"projectpulse/internal/services"
	"projectpulse/internal/storage"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	store storage.Store
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(store storage.Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

// List returns all projects
// GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.store.Projects(c.Context())
	if err != nil {
		log.Printf("❌ Failed to list projects: %v", err)
		return respondError(c, err, "Failed to list projects")
	}
	return c.JSON(projects)
}

// Create validates and stores a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in models.InsertProject
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project data",
		})
	}
	if err := in.Validate(); err != nil {
		return respondError(c, err, "Invalid project data")
	}

	project, err := h.store.CreateProject(c.Context(), in)
	if err != nil {
		log.Printf("❌ Failed to create project: %v", err)
		return respondError(c, err, "Failed to create project")
	}

	services.GetMetrics().RecordEntityCreated("projects")
	return c.JSON(project)
}

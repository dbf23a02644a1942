package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"projectpulse/internal/models"
	"projectpulse/internal/services"
	"projectpulse/internal/storage"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	store storage.Store
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store storage.Store) *TaskHandler {
	return &TaskHandler{store: store}
}

// List returns tasks, optionally filtered by projectId
// GET /api/tasks?projectId=
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.store.Tasks(c.Context(), projectIDFilter(c))
	if err != nil {
		log.Printf("❌ Failed to list tasks: %v", err)
		return respondError(c, err, "Failed to list tasks")
	}
	return c.JSON(tasks)
}

// Create validates and stores a new task
// POST /api/tasks
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in models.InsertTask
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task data",
		})
	}
	if err := in.Validate(); err != nil {
		return respondError(c, err, "Invalid task data")
	}
	if err := verifyProjectRef(c, h.store, in.ProjectID); err != nil {
		return respondError(c, err, "Invalid task data")
	}

	task, err := h.store.CreateTask(c.Context(), in)
	if err != nil {
		log.Printf("❌ Failed to create task: %v", err)
		return respondError(c, err, "Failed to create task")
	}

	services.GetMetrics().RecordEntityCreated("tasks")
	return c.JSON(task)
}

// Update applies a partial update to a task
// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task id",
		})
	}

	var patch models.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task data",
		})
	}
	if err := patch.Validate(); err != nil {
		return respondError(c, err, "Invalid task data")
	}
	if projectID, ok := patch.ProjectIDValue(); ok {
		if err := verifyProjectRef(c, h.store, projectID); err != nil {
			return respondError(c, err, "Invalid task data")
		}
	}

	task, err := h.store.UpdateTask(c.Context(), id, patch)
	if err != nil {
		return respondError(c, err, "Failed to update task")
	}
	return c.JSON(task)
}

// Delete removes a task. Deleting an absent id still responds 204.
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task id",
		})
	}

	if err := h.store.DeleteTask(c.Context(), id); err != nil {
		log.Printf("❌ Failed to delete task %d: %v", id, err)
		return respondError(c, err, "Failed to delete task")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

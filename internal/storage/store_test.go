package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"projectpulse/internal/models"
)

// runStoreTests exercises the Store contract against any implementation
func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateTaskAssignsIDAndDefaults", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		in := models.InsertTask{Title: "Write spec", Status: "pending"}
		task, err := store.CreateTask(ctx, in)
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if task.ID != 1 {
			t.Errorf("Expected id 1, got %d", task.ID)
		}
		if task.ProjectID != nil || task.Description != nil || task.DueDate != nil {
			t.Errorf("Expected null optional fields, got %+v", task)
		}

		got, err := store.Task(ctx, task.ID)
		if err != nil {
			t.Fatalf("Task failed: %v", err)
		}
		if got.Title != "Write spec" || got.Status != "pending" {
			t.Errorf("Round-tripped task differs: %+v", got)
		}
	})

	t.Run("TaskIDsAreMonotonicAndNeverReused", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		first, _ := store.CreateTask(ctx, models.InsertTask{Title: "one", Status: "pending"})
		second, _ := store.CreateTask(ctx, models.InsertTask{Title: "two", Status: "pending"})
		if second.ID <= first.ID {
			t.Fatalf("Expected monotonic ids, got %d then %d", first.ID, second.ID)
		}

		if err := store.DeleteTask(ctx, second.ID); err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		third, _ := store.CreateTask(ctx, models.InsertTask{Title: "three", Status: "pending"})
		if third.ID == second.ID {
			t.Errorf("Id %d was reused after deletion", second.ID)
		}
	})

	t.Run("FilteredListExcludesNullProjectID", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		project, _ := store.CreateProject(ctx, models.InsertProject{Name: "Alpha", Status: "active"})
		other, _ := store.CreateProject(ctx, models.InsertProject{Name: "Beta", Status: "active"})

		store.CreateTask(ctx, models.InsertTask{Title: "scoped", Status: "pending", ProjectID: &project.ID})
		store.CreateTask(ctx, models.InsertTask{Title: "other", Status: "pending", ProjectID: &other.ID})
		store.CreateTask(ctx, models.InsertTask{Title: "unscoped", Status: "pending"})

		filtered, err := store.Tasks(ctx, &project.ID)
		if err != nil {
			t.Fatalf("Tasks failed: %v", err)
		}
		if len(filtered) != 1 || filtered[0].Title != "scoped" {
			t.Errorf("Expected exactly the scoped task, got %+v", filtered)
		}

		all, _ := store.Tasks(ctx, nil)
		if len(all) != 3 {
			t.Errorf("Expected 3 tasks unfiltered, got %d", len(all))
		}
	})

	t.Run("ListsPreserveInsertionOrder", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		for _, title := range []string{"first", "second", "third"} {
			store.CreateTask(ctx, models.InsertTask{Title: title, Status: "pending"})
		}
		tasks, _ := store.Tasks(ctx, nil)
		if len(tasks) != 3 {
			t.Fatalf("Expected 3 tasks, got %d", len(tasks))
		}
		for i, want := range []string{"first", "second", "third"} {
			if tasks[i].Title != want {
				t.Errorf("Position %d: expected %q, got %q", i, want, tasks[i].Title)
			}
		}
	})

	t.Run("UpdateTaskChangesOnlyPatchedFields", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		desc := "details"
		task, _ := store.CreateTask(ctx, models.InsertTask{Title: "Write spec", Status: "pending", Description: &desc})

		status := "completed"
		patch := models.TaskPatch{Status: &status}

		updated, err := store.UpdateTask(ctx, task.ID, patch)
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if updated.Status != "completed" {
			t.Errorf("Expected status completed, got %q", updated.Status)
		}
		if updated.Title != "Write spec" || updated.Description == nil || *updated.Description != "details" {
			t.Errorf("Untouched fields changed: %+v", updated)
		}

		// same patch twice yields the same state
		again, err := store.UpdateTask(ctx, task.ID, patch)
		if err != nil {
			t.Fatalf("Second UpdateTask failed: %v", err)
		}
		if again.Status != updated.Status || again.Title != updated.Title {
			t.Errorf("Update is not idempotent: %+v vs %+v", again, updated)
		}
	})

	t.Run("ExplicitNullClearsNullableField", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		project, _ := store.CreateProject(ctx, models.InsertProject{Name: "Alpha", Status: "active"})
		task, _ := store.CreateTask(ctx, models.InsertTask{Title: "scoped", Status: "pending", ProjectID: &project.ID})

		patch := models.TaskPatch{ProjectID: []byte("null")}
		updated, err := store.UpdateTask(ctx, task.ID, patch)
		if err != nil {
			t.Fatalf("UpdateTask failed: %v", err)
		}
		if updated.ProjectID != nil {
			t.Errorf("Expected projectId cleared, got %v", *updated.ProjectID)
		}
	})

	t.Run("UpdateMissingTaskReturnsNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		status := "delayed"
		_, err := store.UpdateTask(ctx, 999, models.TaskPatch{Status: &status})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteTaskIsIdempotent", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		task, _ := store.CreateTask(ctx, models.InsertTask{Title: "gone", Status: "pending"})

		if err := store.DeleteTask(ctx, task.ID); err != nil {
			t.Fatalf("DeleteTask failed: %v", err)
		}
		if _, err := store.Task(ctx, task.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		// deleting twice is not an error
		if err := store.DeleteTask(ctx, task.ID); err != nil {
			t.Errorf("Second delete errored: %v", err)
		}
	})

	t.Run("MeetingSummaryStartsNull", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		meeting, err := store.CreateMeeting(ctx, models.InsertMeeting{Title: "Kickoff", Date: time.Now().UTC()})
		if err != nil {
			t.Fatalf("CreateMeeting failed: %v", err)
		}
		if meeting.Summary != nil {
			t.Errorf("Expected null summary on creation, got %q", *meeting.Summary)
		}

		updated, err := store.SetMeetingSummary(ctx, meeting.ID, `{"summary":"done"}`)
		if err != nil {
			t.Fatalf("SetMeetingSummary failed: %v", err)
		}
		if updated.Summary == nil || *updated.Summary != `{"summary":"done"}` {
			t.Errorf("Summary not persisted: %+v", updated)
		}
	})

	t.Run("SetSummaryOnMissingMeetingReturnsNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		if _, err := store.SetMeetingSummary(ctx, 42, "x"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ReportsRoundTrip", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		project, _ := store.CreateProject(ctx, models.InsertProject{Name: "Alpha", Status: "active"})
		now := time.Now().UTC().Truncate(time.Second)

		report, err := store.CreateReport(ctx, models.InsertReport{
			ProjectID:   &project.ID,
			Type:        "weekly",
			Content:     `[{"title":"Summary","items":["ok"]}]`,
			GeneratedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateReport failed: %v", err)
		}

		scoped, _ := store.Reports(ctx, &project.ID)
		if len(scoped) != 1 || scoped[0].ID != report.ID {
			t.Fatalf("Expected the created report, got %+v", scoped)
		}
		if !scoped[0].GeneratedAt.Equal(now) {
			t.Errorf("GeneratedAt changed: %v vs %v", scoped[0].GeneratedAt, now)
		}
	})

	t.Run("ProjectDefaultsRoundTrip", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		project, err := store.CreateProject(ctx, models.InsertProject{Name: "Alpha", Status: "active"})
		if err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
		got, err := store.Project(ctx, project.ID)
		if err != nil {
			t.Fatalf("Project failed: %v", err)
		}
		if got.Name != "Alpha" || got.Status != "active" || got.Description != nil {
			t.Errorf("Round-tripped project differs: %+v", got)
		}

		if _, err := store.Project(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to open SQLite store: %v", err)
		}
		return store
	})
}

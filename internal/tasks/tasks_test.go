package tasks

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

func setupStore(t *testing.T) (*Store, storage.Provider) {
	t.Helper()
	p := storage.NewJSONStore(filepath.Join(t.TempDir(), "studyflow.json"))
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, p
}

func mustAdd(t *testing.T, s *Store, in NewTask) models.Task {
	t.Helper()
	task, err := s.Add(in)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task == nil {
		t.Fatalf("Add(%q) returned nil", in.Title)
	}
	return *task
}

func TestAddDefaultsAndStats(t *testing.T) {
	s, _ := setupStore(t)

	task := mustAdd(t, s, NewTask{Title: "Read Chapter 3", Category: models.TaskCategoryStudy, Priority: models.PriorityHigh})
	if task.Completed {
		t.Error("new task should not be completed")
	}

	stats := s.Stats()
	if stats != (Stats{Total: 1, Completed: 0, Percentage: 0}) {
		t.Errorf("Stats() = %+v, want {1 0 0}", stats)
	}

	if _, err := s.Toggle(task.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	stats = s.Stats()
	if stats != (Stats{Total: 1, Completed: 1, Percentage: 100}) {
		t.Errorf("Stats() = %+v, want {1 1 100}", stats)
	}
}

func TestAddDefaults(t *testing.T) {
	s, _ := setupStore(t)

	task := mustAdd(t, s, NewTask{Title: "  Gym  ", Description: "   "})
	if task.Title != "Gym" {
		t.Errorf("title = %q, want trimmed", task.Title)
	}
	if task.Description != nil {
		t.Errorf("blank description should be absent, got %q", *task.Description)
	}
	if task.Category != models.TaskCategoryStudy || task.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s, want Study/medium", task.Category, task.Priority)
	}
}

func TestAddBlankTitleIsNoop(t *testing.T) {
	s, _ := setupStore(t)

	task, err := s.Add(NewTask{Title: "   "})
	if err != nil || task != nil {
		t.Errorf("Add(blank) = %v, %v; want nil, nil", task, err)
	}
	if len(s.All()) != 0 {
		t.Error("blank title should not create a task")
	}
}

func TestAddPrepends(t *testing.T) {
	s, _ := setupStore(t)
	mustAdd(t, s, NewTask{Title: "first"})
	mustAdd(t, s, NewTask{Title: "second"})

	all := s.All()
	if all[0].Title != "second" || all[1].Title != "first" {
		t.Errorf("order = %s, %s; want newest first", all[0].Title, all[1].Title)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	s, _ := setupStore(t)
	task := mustAdd(t, s, NewTask{Title: "Essay"})

	s.Toggle(task.ID)
	s.Toggle(task.ID)

	got, _ := s.Get(task.ID)
	if got.Completed != task.Completed {
		t.Error("toggling twice should restore the original state")
	}
}

func TestUnknownID(t *testing.T) {
	s, _ := setupStore(t)
	mustAdd(t, s, NewTask{Title: "keep"})

	if _, err := s.Toggle("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle error = %v", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v", err)
	}
	title := "x"
	if _, err := s.Update("nope", Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v", err)
	}
	if len(s.All()) != 1 {
		t.Error("state changed after unknown-id operations")
	}
}

func TestUpdate(t *testing.T) {
	s, _ := setupStore(t)
	due := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)
	task := mustAdd(t, s, NewTask{Title: "Lab report", DueDate: &due})

	if task.DueDate == nil || !task.DueDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date not normalized: %v", task.DueDate)
	}

	blank := "  "
	desc := "sections 1-3"
	work := models.TaskCategoryWork
	low := models.PriorityLow
	got, err := s.Update(task.ID, Patch{Title: &blank, Description: &desc, Category: &work, Priority: &low, ClearDueDate: true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "Lab report" {
		t.Errorf("blank title patch should be ignored, got %q", got.Title)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("description = %v", got.Description)
	}
	if got.Category != work || got.Priority != low {
		t.Errorf("category/priority = %s/%s", got.Category, got.Priority)
	}
	if got.DueDate != nil {
		t.Error("due date should be cleared")
	}

	bad := models.Priority("urgent")
	if _, err := s.Update(task.ID, Patch{Priority: &bad}); err == nil {
		t.Error("expected invalid priority to be rejected")
	}
}

func TestFilter(t *testing.T) {
	s, _ := setupStore(t)
	a := mustAdd(t, s, NewTask{Title: "a", Category: models.TaskCategoryWork})
	mustAdd(t, s, NewTask{Title: "b", Category: models.TaskCategoryStudy})
	mustAdd(t, s, NewTask{Title: "c", Category: models.TaskCategoryWork})
	s.Toggle(a.ID)

	tests := []struct {
		status   StatusFilter
		category string
		want     []string
	}{
		{StatusAll, CategoryAll, []string{"c", "b", "a"}},
		{StatusActive, CategoryAll, []string{"c", "b"}},
		{StatusCompleted, CategoryAll, []string{"a"}},
		{StatusAll, "Work", []string{"c", "a"}},
		{StatusActive, "work", []string{"c"}},
		{StatusCompleted, "Study", nil},
	}

	for _, tt := range tests {
		got := s.Filter(tt.status, tt.category)
		if len(got) != len(tt.want) {
			t.Errorf("Filter(%s, %s) returned %d tasks, want %d", tt.status, tt.category, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Title != tt.want[i] {
				t.Errorf("Filter(%s, %s)[%d] = %s, want %s", tt.status, tt.category, i, got[i].Title, tt.want[i])
			}
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, p := setupStore(t)
	due := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	task := mustAdd(t, s, NewTask{Title: "Read Chapter 3", Description: "pages 40-60", DueDate: &due})
	s.Toggle(task.ID)

	reopened, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got, err := reopened.Get(task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Completed || got.Title != task.Title || *got.Description != "pages 40-60" {
		t.Errorf("round trip lost data: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) || !got.DueDate.Equal(due) {
		t.Errorf("timestamps not re-hydrated: created %v due %v", got.CreatedAt, got.DueDate)
	}
}

func TestResolve(t *testing.T) {
	s, _ := setupStore(t)
	task := mustAdd(t, s, NewTask{Title: "x"})

	id, err := s.Resolve(task.ID[:8])
	if err != nil || id != task.ID {
		t.Errorf("Resolve(prefix) = %q, %v", id, err)
	}
	if _, err := s.Resolve("zzzzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) error = %v", err)
	}
}

func TestParseStatusFilter(t *testing.T) {
	for in, want := range map[string]StatusFilter{"": StatusAll, "ALL": StatusAll, "active": StatusActive, "Completed": StatusCompleted} {
		got, err := ParseStatusFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseStatusFilter(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatusFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

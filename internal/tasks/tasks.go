package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chaisa2/student-productivity-help-app/internal/collection"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

var ErrNotFound = errors.New("task not found")

// StatusFilter narrows a listing by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// CategoryAll matches every category in Filter.
const CategoryAll = "all"

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusCompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid status filter %q (expected all, active or completed)", s)
}

// NewTask holds the user input for Add. Zero values take the defaults.
type NewTask struct {
	Title       string
	Description string
	Category    models.TaskCategory
	Priority    models.Priority
	DueDate     *time.Time
}

// Patch lists the fields to change in Update. Nil fields are left alone.
type Patch struct {
	Title        *string
	Description  *string
	Category     *models.TaskCategory
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

type Stats struct {
	Total      int
	Completed  int
	Percentage int
}

type Store struct {
	provider storage.Provider
	list     *collection.List[models.Task]
	now      func() time.Time
}

func taskID(t models.Task) string { return t.ID }

// Open loads the task collection from p.
func Open(p storage.Provider) (*Store, error) {
	var items []models.Task
	if _, err := storage.GetJSON(p, constants.KeyTasks, &items); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return &Store{
		provider: p,
		list:     collection.New(taskID, items),
		now:      time.Now,
	}, nil
}

func (s *Store) save() error {
	if err := storage.PutJSON(s.provider, constants.KeyTasks, s.list.Items()); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// All returns every task, newest first.
func (s *Store) All() []models.Task {
	return s.list.Items()
}

func (s *Store) Get(id string) (models.Task, error) {
	t, ok := s.list.Get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return t, nil
}

// Resolve expands a unique id prefix to a task id.
func (s *Store) Resolve(prefix string) (string, error) {
	id, err := s.list.Resolve(prefix)
	if errors.Is(err, collection.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// Add prepends a new task. A blank title is ignored and yields nil.
func (s *Store) Add(in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: optional(in.Description),
		Category:    in.Category,
		Priority:    in.Priority,
		CreatedAt:   s.now(),
		DueDate:     dueDate(in.DueDate),
	}
	if task.Category == "" {
		task.Category = models.TaskCategoryStudy
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	s.list.Prepend(task)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &task, nil
}

// Toggle flips the completed flag.
func (s *Store) Toggle(id string) (models.Task, error) {
	task, ok := s.list.Get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	task.Completed = !task.Completed
	s.list.Replace(task)
	return task, s.save()
}

// Update merges patch into the task. A patch that would blank the title keeps the old one.
func (s *Store) Update(id string, patch Patch) (models.Task, error) {
	task, ok := s.list.Get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}

	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			task.Title = title
		}
	}
	if patch.Description != nil {
		task.Description = optional(*patch.Description)
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = dueDate(patch.DueDate)
	}

	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	s.list.Replace(task)
	return task, s.save()
}

func (s *Store) Delete(id string) error {
	if !s.list.Remove(id) {
		return ErrNotFound
	}
	return s.save()
}

// Filter returns the tasks matching both the status and the category
// (CategoryAll or "" matches any), in collection order.
func (s *Store) Filter(status StatusFilter, category string) []models.Task {
	var out []models.Task
	for _, t := range s.list.Items() {
		statusMatch := status == StatusAll || status == "" ||
			(status == StatusActive && !t.Completed) ||
			(status == StatusCompleted && t.Completed)
		categoryMatch := category == "" || strings.EqualFold(category, CategoryAll) ||
			strings.EqualFold(category, string(t.Category))
		if statusMatch && categoryMatch {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Stats() Stats {
	stats := Stats{Total: s.list.Len()}
	for _, t := range s.list.Items() {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Percentage = utils.RoundPercent(stats.Completed, stats.Total)
	return stats
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// dueDate normalizes a due date to its calendar day.
func dueDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := utils.DateOf(*t)
	return &d
}

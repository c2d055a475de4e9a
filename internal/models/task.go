package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskCategory string

const (
	TaskCategoryPersonal TaskCategory = "Personal"
	TaskCategoryWork     TaskCategory = "Work"
	TaskCategoryStudy    TaskCategory = "Study"
	TaskCategoryHealth   TaskCategory = "Health"
	TaskCategoryOther    TaskCategory = "Other"
)

// TaskCategories lists the closed set of task categories in display order.
var TaskCategories = []TaskCategory{
	TaskCategoryPersonal,
	TaskCategoryWork,
	TaskCategoryStudy,
	TaskCategoryHealth,
	TaskCategoryOther,
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Completed   bool         `json:"completed"`
	Category    TaskCategory `json:"category"`
	Priority    Priority     `json:"priority"`
	CreatedAt   time.Time    `json:"createdAt"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if !t.Category.Valid() {
		return fmt.Errorf("invalid task category: %q", t.Category)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid task priority: %q", t.Priority)
	}
	return nil
}

func (c TaskCategory) Valid() bool {
	for _, known := range TaskCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseTaskCategory matches a category name case-insensitively.
func ParseTaskCategory(s string) (TaskCategory, error) {
	for _, c := range TaskCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (expected one of %s)", s, joinNames(TaskCategories))
}

// ParsePriority matches a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected low, medium or high)", s)
	}
	return p, nil
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

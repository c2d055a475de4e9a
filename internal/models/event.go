package models

import (
	"fmt"
	"strings"
	"time"
)

type EventCategory string

const (
	EventCategoryStudy      EventCategory = "Study"
	EventCategoryAssignment EventCategory = "Assignment"
	EventCategoryExam       EventCategory = "Exam"
	EventCategoryMeeting    EventCategory = "Meeting"
	EventCategoryPersonal   EventCategory = "Personal"
	EventCategoryOther      EventCategory = "Other"
)

var EventCategories = []EventCategory{
	EventCategoryStudy,
	EventCategoryAssignment,
	EventCategoryExam,
	EventCategoryMeeting,
	EventCategoryPersonal,
	EventCategoryOther,
}

// Event is a dated calendar entry.
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Date        string        `json:"date"`           // YYYY-MM-DD format
	Time        string        `json:"time,omitempty"` // HH:MM format
	Duration    int           `json:"duration,omitempty"`
	Category    EventCategory `json:"category"`
	Color       Color         `json:"color"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title cannot be empty")
	}
	if e.Date == "" {
		return fmt.Errorf("event date cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if e.Time != "" {
		if _, err := time.Parse("15:04", e.Time); err != nil {
			return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
		}
	}
	if e.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

func ParseEventCategory(s string) (EventCategory, error) {
	for _, c := range EventCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (expected one of %s)", s, joinNames(EventCategories))
}

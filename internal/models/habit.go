package models

import (
	"fmt"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type HabitCategory string

const (
	HabitCategoryHealth       HabitCategory = "Health"
	HabitCategoryLearning     HabitCategory = "Learning"
	HabitCategoryProductivity HabitCategory = "Productivity"
	HabitCategoryFitness      HabitCategory = "Fitness"
	HabitCategoryMindfulness  HabitCategory = "Mindfulness"
	HabitCategoryOther        HabitCategory = "Other"
)

var HabitCategories = []HabitCategory{
	HabitCategoryHealth,
	HabitCategoryLearning,
	HabitCategoryProductivity,
	HabitCategoryFitness,
	HabitCategoryMindfulness,
	HabitCategoryOther,
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Frequency   Frequency     `json:"frequency"`
	Category    HabitCategory `json:"category"`
	Color       Color         `json:"color"`
	CreatedAt   time.Time     `json:"createdAt"`
	Entries     []HabitEntry  `json:"entries"`
}

// HabitEntry represents a single day's record of a habit
type HabitEntry struct {
	Date      string `json:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed"`
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if h.Frequency != FrequencyDaily && h.Frequency != FrequencyWeekly {
		return fmt.Errorf("invalid habit frequency: %q", h.Frequency)
	}
	seen := make(map[string]bool, len(h.Entries))
	for _, e := range h.Entries {
		if _, err := time.Parse("2006-01-02", e.Date); err != nil {
			return fmt.Errorf("invalid entry date %q (expected YYYY-MM-DD): %w", e.Date, err)
		}
		if seen[e.Date] {
			return fmt.Errorf("duplicate entry for %s", e.Date)
		}
		seen[e.Date] = true
	}
	return nil
}

// Entry returns the entry recorded for date, if any.
func (h *Habit) Entry(date string) (HabitEntry, bool) {
	for _, e := range h.Entries {
		if e.Date == date {
			return e, true
		}
	}
	return HabitEntry{}, false
}

// CompletedOn reports whether the habit has a completed entry for date.
func (h *Habit) CompletedOn(date string) bool {
	e, ok := h.Entry(date)
	return ok && e.Completed
}

func ParseHabitCategory(s string) (HabitCategory, error) {
	for _, c := range HabitCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (expected one of %s)", s, joinNames(HabitCategories))
}

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if f != FrequencyDaily && f != FrequencyWeekly {
		return "", fmt.Errorf("invalid frequency %q (expected daily or weekly)", s)
	}
	return f, nil
}

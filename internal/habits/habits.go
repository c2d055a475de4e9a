package habits

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

var (
	ErrNotFound    = errors.New("habit not found")
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")
)

// NewHabit holds the user input for Add. Zero values take the defaults.
type NewHabit struct {
	Name        string
	Description string
	Frequency   models.Frequency
	Category    models.HabitCategory
	Color       models.Color
}

type Store struct {
	provider storage.Provider
	list     *collection.List[models.Habit]
	now      func() time.Time
}

func habitID(h models.Habit) string { return h.ID }

// Open loads the habit collection from p.
func Open(p storage.Provider) (*Store, error) {
	var items []models.Habit
	if _, err := storage.GetJSON(p, constants.KeyHabits, &items); err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	for i := range items {
		if items[i].Entries == nil {
			items[i].Entries = []models.HabitEntry{}
		}
	}
	return &Store{
		provider: p,
		list:     collection.New(habitID, items),
		now:      time.Now,
	}, nil
}

func (s *Store) save() error {
	if err := storage.PutJSON(s.provider, constants.KeyHabits, s.list.Items()); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

// All returns every habit, newest first.
func (s *Store) All() []models.Habit {
	return s.list.Items()
}

func (s *Store) Get(id string) (models.Habit, error) {
	h, ok := s.list.Get(id)
	if !ok {
		return models.Habit{}, ErrNotFound
	}
	return h, nil
}

// Resolve expands a unique id prefix to a habit id.
func (s *Store) Resolve(prefix string) (string, error) {
	id, err := s.list.Resolve(prefix)
	if errors.Is(err, collection.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// Add prepends a habit with no entries. A blank name is ignored and yields nil.
func (s *Store) Add(in NewHabit) (*models.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil
	}

	habit := models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Frequency: in.Frequency,
		Category:  in.Category,
		Color:     in.Color,
		CreatedAt: s.now(),
		Entries:   []models.HabitEntry{},
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		habit.Description = &desc
	}
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	if habit.Category == "" {
		habit.Category = models.HabitCategoryHealth
	}
	if habit.Color == "" {
		habit.Color = models.ColorBlue
	}
	if err := habit.Validate(); err != nil {
		return nil, err
	}

	s.list.Prepend(habit)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *Store) Delete(id string) error {
	if !s.list.Remove(id) {
		return ErrNotFound
	}
	return s.save()
}

// ToggleEntry flips the entry for date, or records a completed entry when
// the date has none. Entries are never removed.
func (s *Store) ToggleEntry(id, date string) (models.Habit, error) {
	if !utils.ValidateDateFormat(date) {
		return models.Habit{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	habit, ok := s.list.Get(id)
	if !ok {
		return models.Habit{}, ErrNotFound
	}

	entries := make([]models.HabitEntry, len(habit.Entries), len(habit.Entries)+1)
	copy(entries, habit.Entries)

	found := false
	for i := range entries {
		if entries[i].Date == date {
			entries[i].Completed = !entries[i].Completed
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, models.HabitEntry{Date: date, Completed: true})
	}

	habit.Entries = entries
	s.list.Replace(habit)
	return habit, s.save()
}

// Overview aggregates every habit in the store.
func (s *Store) Overview(today time.Time) Overview {
	return Summarize(s.list.Items(), today)
}

package calendar

import (
	"errors"
	"fmt"
	"sort"
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
	ErrNotFound    = errors.New("event not found")
	ErrInvalidDate = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidTime = errors.New("invalid time (expected HH:MM)")
)

// NewEvent holds the user input for Add. Zero values take the defaults.
type NewEvent struct {
	Title       string
	Description string
	Date        string
	Time        string
	Duration    int
	Category    models.EventCategory
	Color       models.Color
}

// Patch lists the fields to change in Update. Nil fields are left alone;
// a pointer to "" clears Time.
type Patch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Duration    *int
	Category    *models.EventCategory
	Color       *models.Color
}

type Store struct {
	provider storage.Provider
	list     *collection.List[models.Event]
	now      func() time.Time
}

func eventID(e models.Event) string { return e.ID }

// Open loads the event collection from p.
func Open(p storage.Provider) (*Store, error) {
	var items []models.Event
	if _, err := storage.GetJSON(p, constants.KeyEvents, &items); err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return &Store{
		provider: p,
		list:     collection.New(eventID, items),
		now:      time.Now,
	}, nil
}

func (s *Store) save() error {
	if err := storage.PutJSON(s.provider, constants.KeyEvents, s.list.Items()); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return nil
}

// All returns every event in insertion order.
func (s *Store) All() []models.Event {
	return s.list.Items()
}

func (s *Store) Get(id string) (models.Event, error) {
	e, ok := s.list.Get(id)
	if !ok {
		return models.Event{}, ErrNotFound
	}
	return e, nil
}

// Resolve expands a unique id prefix to an event id.
func (s *Store) Resolve(prefix string) (string, error) {
	id, err := s.list.Resolve(prefix)
	if errors.Is(err, collection.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// Add appends a new event. A blank title or missing date is ignored and yields nil.
func (s *Store) Add(in NewEvent) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	date := strings.TrimSpace(in.Date)
	if title == "" || date == "" {
		return nil, nil
	}
	if err := checkDateTime(date, in.Time); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:        uuid.NewString(),
		Title:     title,
		Date:      date,
		Time:      strings.TrimSpace(in.Time),
		Duration:  in.Duration,
		Category:  in.Category,
		Color:     in.Color,
		CreatedAt: s.now(),
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		event.Description = &desc
	}
	if event.Duration == 0 {
		event.Duration = constants.DefaultEventDuration
	}
	if event.Category == "" {
		event.Category = models.EventCategoryStudy
	}
	if event.Color == "" {
		event.Color = models.ColorBlue
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	s.list.Append(event)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update merges patch into the event. A patch that would blank the title or
// the date is ignored as a whole, mirroring Add.
func (s *Store) Update(id string, patch Patch) (models.Event, error) {
	event, ok := s.list.Get(id)
	if !ok {
		return models.Event{}, ErrNotFound
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return event, nil
	}
	if patch.Date != nil && strings.TrimSpace(*patch.Date) == "" {
		return event, nil
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if desc := strings.TrimSpace(*patch.Description); desc != "" {
			event.Description = &desc
		} else {
			event.Description = nil
		}
	}
	if patch.Date != nil {
		event.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Time != nil {
		event.Time = strings.TrimSpace(*patch.Time)
	}
	if patch.Duration != nil {
		event.Duration = *patch.Duration
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Color != nil {
		event.Color = *patch.Color
	}

	if err := checkDateTime(event.Date, event.Time); err != nil {
		return models.Event{}, err
	}
	if err := event.Validate(); err != nil {
		return models.Event{}, err
	}
	s.list.Replace(event)
	return event, s.save()
}

func (s *Store) Delete(id string) error {
	if !s.list.Remove(id) {
		return ErrNotFound
	}
	return s.save()
}

// EventsOn returns the events on date in collection order.
func (s *Store) EventsOn(date string) []models.Event {
	var out []models.Event
	for _, e := range s.list.Items() {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming returns up to five events dated today or later, soonest first.
// Events without a time sort before timed events on the same day.
func (s *Store) Upcoming(today time.Time) []models.Event {
	from := utils.FormatDate(today)

	var out []models.Event
	for _, e := range s.list.Items() {
		if e.Date >= from {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	if len(out) > constants.UpcomingEventsLimit {
		out = out[:constants.UpcomingEventsLimit]
	}
	return out
}

func checkDateTime(date, clock string) error {
	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if clock = strings.TrimSpace(clock); clock != "" && !utils.ValidateTimeFormat(clock) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	return nil
}

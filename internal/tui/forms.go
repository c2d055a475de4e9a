package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/chaisa2/student-productivity-help-app/internal/calendar"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/habits"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/timer"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type TaskFormModel struct {
	Title       string
	Description string
	Category    models.TaskCategory
	Priority    models.Priority
	DueDate     string
}

type HabitFormModel struct {
	Name        string
	Description string
	Frequency   models.Frequency
	Category    models.HabitCategory
	Color       models.Color
}

type EventFormModel struct {
	Title       string
	Description string
	Date        string
	Time        string
	Duration    string
	Category    models.EventCategory
	Color       models.Color
}

type TimerFormModel struct {
	Focus      string
	ShortBreak string
	LongBreak  string
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalDate(s string) error {
	if s = strings.TrimSpace(s); s != "" && !utils.ValidateDateFormat(s) {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func requiredDate(s string) error {
	if !utils.ValidateDateFormat(strings.TrimSpace(s)) {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func optionalTime(s string) error {
	if s = strings.TrimSpace(s); s != "" && !utils.ValidateTimeFormat(s) {
		return errors.New("use HH:MM")
	}
	return nil
}

func minutesIn(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("enter %d-%d minutes", lo, hi)
		}
		return nil
	}
}

func nonNegativeMinutes(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return errors.New("enter a number of minutes")
	}
	return nil
}

func newTaskForm(f *TaskFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Read chapter 3").
				Value(&f.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Description").
				Value(&f.Description),
			huh.NewSelect[models.TaskCategory]().
				Title("Category").
				Options(huh.NewOptions(models.TaskCategories...)...).
				Value(&f.Category),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(huh.NewOptions(models.Priorities...)...).
				Value(&f.Priority),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&f.DueDate).
				Validate(optionalDate),
		),
	).WithShowHelp(true)
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New habit").
				Placeholder("Read for 20 minutes").
				Value(&f.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Description").
				Value(&f.Description),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(huh.NewOptions(models.FrequencyDaily, models.FrequencyWeekly)...).
				Value(&f.Frequency),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(huh.NewOptions(models.HabitCategories...)...).
				Value(&f.Category),
			huh.NewSelect[models.Color]().
				Title("Color").
				Options(huh.NewOptions(models.Colors...)...).
				Value(&f.Color),
		),
	).WithShowHelp(true)
}

func newEventForm(f *EventFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Chemistry midterm").
				Value(&f.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Description").
				Value(&f.Description),
			huh.NewInput().
				Title("Date").
				Value(&f.Date).
				Validate(requiredDate),
			huh.NewInput().
				Title("Time").
				Placeholder("HH:MM (optional)").
				Value(&f.Time).
				Validate(optionalTime),
			huh.NewInput().
				Title("Duration (minutes)").
				Value(&f.Duration).
				Validate(nonNegativeMinutes),
			huh.NewSelect[models.EventCategory]().
				Title("Category").
				Options(huh.NewOptions(models.EventCategories...)...).
				Value(&f.Category),
			huh.NewSelect[models.Color]().
				Title("Color").
				Options(huh.NewOptions(models.Colors...)...).
				Value(&f.Color),
		),
	).WithShowHelp(true)
}

func newTimerForm(f *TimerFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus minutes").
				Value(&f.Focus).
				Validate(minutesIn(1, 120)),
			huh.NewInput().
				Title("Short break minutes").
				Value(&f.ShortBreak).
				Validate(minutesIn(1, 30)),
			huh.NewInput().
				Title("Long break minutes").
				Value(&f.LongBreak).
				Validate(minutesIn(1, 60)),
		),
	).WithShowHelp(true)
}

func taskFormFrom(t *models.Task) *TaskFormModel {
	if t == nil {
		return &TaskFormModel{Category: models.TaskCategoryStudy, Priority: models.PriorityMedium}
	}
	f := &TaskFormModel{Title: t.Title, Category: t.Category, Priority: t.Priority}
	if t.Description != nil {
		f.Description = *t.Description
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.Format(constants.DateFormat)
	}
	return f
}

func (f *TaskFormModel) newTask() (tasks.NewTask, error) {
	due, err := parseDue(f.DueDate)
	if err != nil {
		return tasks.NewTask{}, err
	}
	return tasks.NewTask{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Priority:    f.Priority,
		DueDate:     due,
	}, nil
}

func (f *TaskFormModel) patch() (tasks.Patch, error) {
	due, err := parseDue(f.DueDate)
	if err != nil {
		return tasks.Patch{}, err
	}
	return tasks.Patch{
		Title:        &f.Title,
		Description:  &f.Description,
		Category:     &f.Category,
		Priority:     &f.Priority,
		DueDate:      due,
		ClearDueDate: due == nil,
	}, nil
}

func (f *HabitFormModel) newHabit() habits.NewHabit {
	return habits.NewHabit{
		Name:        f.Name,
		Description: f.Description,
		Frequency:   f.Frequency,
		Category:    f.Category,
		Color:       f.Color,
	}
}

func eventFormFrom(e *models.Event, date string) *EventFormModel {
	if e == nil {
		return &EventFormModel{
			Date:     date,
			Duration: strconv.Itoa(constants.DefaultEventDuration),
			Category: models.EventCategoryStudy,
			Color:    models.ColorBlue,
		}
	}
	f := &EventFormModel{
		Title:    e.Title,
		Date:     e.Date,
		Time:     e.Time,
		Duration: strconv.Itoa(e.Duration),
		Category: e.Category,
		Color:    e.Color,
	}
	if e.Description != nil {
		f.Description = *e.Description
	}
	return f
}

func (f *EventFormModel) duration() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.Duration))
	return n
}

func (f *EventFormModel) newEvent() calendar.NewEvent {
	return calendar.NewEvent{
		Title:       f.Title,
		Description: f.Description,
		Date:        strings.TrimSpace(f.Date),
		Time:        strings.TrimSpace(f.Time),
		Duration:    f.duration(),
		Category:    f.Category,
		Color:       f.Color,
	}
}

func (f *EventFormModel) patch() calendar.Patch {
	date := strings.TrimSpace(f.Date)
	clock := strings.TrimSpace(f.Time)
	p := calendar.Patch{
		Title:       &f.Title,
		Description: &f.Description,
		Date:        &date,
		Time:        &clock,
		Category:    &f.Category,
		Color:       &f.Color,
	}
	if d := f.duration(); d > 0 {
		p.Duration = &d
	}
	return p
}

func timerFormFrom(d timer.Durations) *TimerFormModel {
	return &TimerFormModel{
		Focus:      strconv.Itoa(int(d.Focus.Minutes())),
		ShortBreak: strconv.Itoa(int(d.ShortBreak.Minutes())),
		LongBreak:  strconv.Itoa(int(d.LongBreak.Minutes())),
	}
}

func (f *TimerFormModel) durations() timer.Durations {
	focus, _ := strconv.Atoi(strings.TrimSpace(f.Focus))
	short, _ := strconv.Atoi(strings.TrimSpace(f.ShortBreak))
	long, _ := strconv.Atoi(strings.TrimSpace(f.LongBreak))
	return timer.DurationsFromConfig(config.TimerConfig{
		FocusMin:      focus,
		ShortBreakMin: short,
		LongBreakMin:  long,
	})
}

func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", s, err)
	}
	return &d, nil
}

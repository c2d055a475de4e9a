package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/calendar"
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type EventCmd struct {
	Add      EventAddCmd      `cmd:"" help:"Add a calendar event."`
	Edit     EventEditCmd     `cmd:"" help:"Edit an existing event."`
	Delete   EventDeleteCmd   `cmd:"" help:"Delete an event."`
	List     EventListCmd     `cmd:"" help:"List events on a day."`
	Month    EventMonthCmd    `cmd:"" help:"Show a month calendar."`
	Week     EventWeekCmd     `cmd:"" help:"Show a week of events."`
	Upcoming EventUpcomingCmd `cmd:"" help:"Show the next upcoming events."`
}

type EventAddCmd struct {
	Title       string `arg:"" help:"Event title."`
	Date        string `help:"Date in YYYY-MM-DD format (default: today)."`
	Time        string `short:"t" help:"Start time (HH:MM)."`
	Duration    int    `short:"d" help:"Duration in minutes." default:"60"`
	Category    string `short:"c" help:"Category (Study|Assignment|Exam|Meeting|Personal|Other)." default:"Study"`
	Color       string `help:"Display color (blue|green|purple|red|yellow|pink|indigo|teal)." default:"blue"`
	Description string `help:"Optional description."`
}

func (c *EventAddCmd) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseEventCategory(c.Category)
	if err != nil {
		return err
	}
	color, err := models.ParseColor(c.Color)
	if err != nil {
		return err
	}
	date := c.Date
	if date == "" {
		date = utils.FormatDate(ctx.Today())
	}

	store, err := ctx.Calendar()
	if err != nil {
		return err
	}
	event, err := store.Add(calendar.NewEvent{
		Title:       c.Title,
		Description: c.Description,
		Date:        date,
		Time:        c.Time,
		Duration:    c.Duration,
		Category:    category,
		Color:       color,
	})
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event title cannot be empty")
	}

	ctx.Printf("Added event: %s on %s (ID: %s)\n", event.Title, when(*event), shortID(event.ID))
	return nil
}

type EventEditCmd struct {
	ID          string  `arg:"" help:"Event ID or unique prefix."`
	Title       *string `help:"New title."`
	Date        *string `help:"New date (YYYY-MM-DD)."`
	Time        *string `short:"t" help:"New start time (HH:MM, empty clears it)."`
	Duration    *int    `short:"d" help:"New duration in minutes."`
	Category    *string `short:"c" help:"New category."`
	Color       *string `help:"New display color."`
	Description *string `help:"New description (empty clears it)."`
}

func (c *EventEditCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Calendar()
	if err != nil {
		return err
	}
	event, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	patch := calendar.Patch{
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date,
		Time:        c.Time,
		Duration:    c.Duration,
	}
	if c.Category != nil {
		category, err := models.ParseEventCategory(*c.Category)
		if err != nil {
			return err
		}
		patch.Category = &category
	}
	if c.Color != nil {
		color, err := models.ParseColor(*c.Color)
		if err != nil {
			return err
		}
		patch.Color = &color
	}

	updated, err := store.Update(event.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	ctx.Printf("Updated event: %s on %s (ID: %s)\n", updated.Title, when(updated), shortID(updated.ID))
	return nil
}

type EventDeleteCmd struct {
	ID string `arg:"" help:"Event ID or unique prefix to delete."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Calendar()
	if err != nil {
		return err
	}
	event, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	if err := store.Delete(event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	ctx.Printf("Deleted event: %s (ID: %s)\n", event.Title, shortID(event.ID))
	return nil
}

type EventListCmd struct {
	Date string `arg:"" optional:"" help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" {
		date = utils.FormatDate(ctx.Today())
	} else if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}

	store, err := ctx.Calendar()
	if err != nil {
		return err
	}

	list := store.EventsOn(date)
	if len(list) == 0 {
		ctx.Printf("No events on %s\n", date)
		return nil
	}

	ctx.Printf("Events on %s:\n", date)
	for _, e := range list {
		printEvent(ctx, e)
	}
	return nil
}

type EventMonthCmd struct {
	Month string `arg:"" optional:"" help:"Month in YYYY-MM format (default: this month)."`
}

func (c *EventMonthCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	ref := today
	if c.Month != "" {
		m, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month format: %s (expected YYYY-MM)", c.Month)
		}
		ref = m
	}

	store, err := ctx.Calendar()
	if err != nil {
		return err
	}

	cells := calendar.MonthGrid(ref.Year(), ref.Month(), today)
	ctx.Printf("%s %d\n", ref.Month(), ref.Year())
	ctx.Println(" Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	// a day with events is marked *, today is bracketed
	for i, cell := range cells {
		label := "  "
		if cell.InMonth {
			label = fmt.Sprintf("%2d", cell.Day)
		}
		mark := " "
		if cell.InMonth && len(store.EventsOn(cell.Date)) > 0 {
			mark = "*"
		}
		if cell.IsToday {
			ctx.Printf("[%s]%s", label, mark)
		} else {
			ctx.Printf(" %s %s", label, mark)
		}
		if i%7 == 6 {
			ctx.Println()
		}
	}
	return nil
}

type EventWeekCmd struct {
	Date string `arg:"" optional:"" help:"Any date in the week (default: today)."`
}

func (c *EventWeekCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	ref := today
	if c.Date != "" {
		d, err := utils.ParseDate(c.Date)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		ref = d
	}

	store, err := ctx.Calendar()
	if err != nil {
		return err
	}

	for _, cell := range calendar.WeekGrid(ref, today) {
		d, _ := utils.ParseDate(cell.Date)
		heading := fmt.Sprintf("%s %s", d.Weekday().String()[:3], cell.Date)
		if cell.IsToday {
			heading += " (today)"
		}
		ctx.Println(heading)
		list := store.EventsOn(cell.Date)
		if len(list) == 0 {
			ctx.Println("  -")
		}
		for _, e := range list {
			printEvent(ctx, e)
		}
	}
	return nil
}

type EventUpcomingCmd struct{}

func (c *EventUpcomingCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Calendar()
	if err != nil {
		return err
	}

	list := store.Upcoming(ctx.Today())
	if len(list) == 0 {
		ctx.Println("No upcoming events")
		return nil
	}

	ctx.Println("Upcoming events:")
	for _, e := range list {
		ctx.Printf("  %s  %s [%s] (ID: %s)\n", when(e), e.Title, e.Category, shortID(e.ID))
	}
	return nil
}

func printEvent(ctx *cli.Context, e models.Event) {
	clock := e.Time
	if clock == "" {
		clock = "all day"
	}
	ctx.Printf("  %-7s %s [%s, %dm] (ID: %s)\n", clock, e.Title, e.Category, e.Duration, shortID(e.ID))
	if e.Description != nil {
		ctx.Printf("          %s\n", *e.Description)
	}
}

func when(e models.Event) string {
	return strings.TrimSpace(e.Date + " " + e.Time)
}

func resolve(store *calendar.Store, prefix string) (models.Event, error) {
	id, err := store.Resolve(prefix)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to find event %s: %w", prefix, err)
	}
	return store.Get(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

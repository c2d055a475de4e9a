package habits

import (
	"fmt"
	"strings"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/habits"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit for a day."`
	Week   HabitWeekCmd   `cmd:"" help:"Show the weekly habit grid."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show habit statistics."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"d" help:"Optional description."`
	Frequency   string `short:"f" help:"Frequency (daily|weekly)." default:"daily"`
	Category    string `short:"c" help:"Category (Health|Learning|Productivity|Fitness|Mindfulness|Other)." default:"Health"`
	Color       string `help:"Display color (blue|green|purple|red|yellow|pink|indigo|teal)." default:"blue"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	frequency, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}
	category, err := models.ParseHabitCategory(c.Category)
	if err != nil {
		return err
	}
	color, err := models.ParseColor(c.Color)
	if err != nil {
		return err
	}

	store, err := ctx.Habits()
	if err != nil {
		return err
	}
	habit, err := store.Add(habits.NewHabit{
		Name:        c.Name,
		Description: c.Description,
		Frequency:   frequency,
		Category:    category,
		Color:       color,
	})
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	if habit == nil {
		return fmt.Errorf("habit name cannot be empty")
	}

	ctx.Printf("Added habit: %s (ID: %s)\n", habit.Name, shortID(habit.ID))
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Habits()
	if err != nil {
		return err
	}

	all := store.All()
	if len(all) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for _, habit := range all {
		ctx.Printf("%s (ID: %s) - %s, %s\n", habit.Name, shortID(habit.ID), habit.Category, habit.Frequency)
		ctx.Printf("    streak %d days, %d%% completion rate (%d days)\n",
			habits.Streak(habit, today),
			habits.CompletionRate(habit, constants.DefaultCompletionWindowDays, today),
			constants.DefaultCompletionWindowDays)
	}
	return nil
}

type HabitToggleCmd struct {
	ID   string `arg:"" help:"Habit ID or unique prefix."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	day := c.Date
	if day == "" {
		day = utils.FormatDate(today)
	} else {
		d, err := utils.ParseDate(day)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
		}
		if d.After(today) {
			return fmt.Errorf("cannot record a habit for a future date: %s", day)
		}
	}

	store, err := ctx.Habits()
	if err != nil {
		return err
	}
	habit, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	habit, err = store.ToggleEntry(habit.ID, day)
	if err != nil {
		return fmt.Errorf("failed to toggle habit: %w", err)
	}

	if habit.CompletedOn(day) {
		ctx.Printf("Marked habit %q for %s\n", habit.Name, day)
	} else {
		ctx.Printf("Unmarked habit %q for %s\n", habit.Name, day)
	}
	return nil
}

type HabitWeekCmd struct {
	Offset int `short:"o" help:"Weeks relative to this one (0 = this week, -1 = last week)." default:"0"`
}

func (c *HabitWeekCmd) Validate() error {
	if c.Offset > 0 {
		return fmt.Errorf("offset cannot be in the future")
	}
	return nil
}

func (c *HabitWeekCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Habits()
	if err != nil {
		return err
	}

	all := store.All()
	if len(all) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	const nameWidth = 20
	days := habits.WeekGrid(c.Offset, ctx.Today())
	ctx.Printf("Week of %s:\n\n", days[0].Date)

	ctx.Printf("%-*s", nameWidth, "Habit")
	for _, d := range days {
		label := d.Weekday
		if d.IsToday {
			label = strings.ToUpper(label)
		}
		ctx.Printf(" %5s", label)
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", nameWidth+6*len(days)))

	for _, habit := range all {
		ctx.Printf("%-*s", nameWidth, truncate(habit.Name, nameWidth))
		for _, d := range days {
			switch {
			case d.Disabled:
				ctx.Printf(" %5s", "")
			case habit.CompletedOn(d.Date):
				ctx.Printf(" %5s", "x")
			default:
				ctx.Printf(" %5s", ".")
			}
		}
		ctx.Println()
	}
	return nil
}

type HabitStatsCmd struct{}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Habits()
	if err != nil {
		return err
	}

	o := store.Overview(ctx.Today())
	ctx.Printf("Active habits:     %d\n", o.ActiveHabits)
	ctx.Printf("Total streak days: %d\n", o.TotalStreaks)
	ctx.Printf("Weekly average:    %d%%\n", o.WeeklyAverage)
	ctx.Printf("Total completions: %d\n", o.TotalCompletions)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID or unique prefix to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Habits()
	if err != nil {
		return err
	}
	habit, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	if err := store.Delete(habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	ctx.Printf("Deleted habit: %s (ID: %s)\n", habit.Name, shortID(habit.ID))
	return nil
}

func resolve(store *habits.Store, prefix string) (models.Habit, error) {
	id, err := store.Resolve(prefix)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to find habit %s: %w", prefix, err)
	}
	return store.Get(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

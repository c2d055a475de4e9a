package habits

import (
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

// Overview is the headline row of the habit tracker.
type Overview struct {
	ActiveHabits     int
	TotalStreaks     int
	WeeklyAverage    int
	TotalCompletions int
}

// Day is one cell of the weekly habit grid.
type Day struct {
	Date     string
	Weekday  string
	IsToday  bool
	Disabled bool
}

func completedDates(h models.Habit) map[string]bool {
	done := make(map[string]bool, len(h.Entries))
	for _, e := range h.Entries {
		if e.Completed {
			done[e.Date] = true
		}
	}
	return done
}

// Streak counts consecutive completed days ending today, or ending yesterday
// when today has not been completed yet.
func Streak(h models.Habit, today time.Time) int {
	done := completedDates(h)
	if len(done) == 0 {
		return 0
	}

	day := utils.DateOf(today)
	if !done[utils.FormatDate(day)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for done[utils.FormatDate(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// CompletionRate is the percentage of completed days over the windowDays+1
// days from today-windowDays through today. The result is always in [0, 100].
func CompletionRate(h models.Habit, windowDays int, today time.Time) int {
	if windowDays < 0 {
		windowDays = 0
	}
	done := completedDates(h)

	end := utils.DateOf(today)
	total, completed := 0, 0
	for d := end.AddDate(0, 0, -windowDays); !d.After(end); d = d.AddDate(0, 0, 1) {
		total++
		if done[utils.FormatDate(d)] {
			completed++
		}
	}
	return utils.RoundPercent(completed, total)
}

// Summarize computes the Overview for a set of habits.
func Summarize(habits []models.Habit, today time.Time) Overview {
	o := Overview{ActiveHabits: len(habits)}
	weekly := make([]int, 0, len(habits))
	for _, h := range habits {
		o.TotalStreaks += Streak(h, today)
		weekly = append(weekly, CompletionRate(h, constants.WeeklyWindowDays, today))
		for _, e := range h.Entries {
			if e.Completed {
				o.TotalCompletions++
			}
		}
	}
	o.WeeklyAverage = utils.RoundMean(weekly)
	return o
}

// WeekGrid returns the Sunday-started week containing today shifted by
// offset weeks. Days after today are disabled.
func WeekGrid(offset int, today time.Time) []Day {
	t := utils.DateOf(today)
	start := utils.StartOfWeek(t).AddDate(0, 0, offset*7)

	days := make([]Day, 7)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = Day{
			Date:     utils.FormatDate(d),
			Weekday:  d.Weekday().String()[:3],
			IsToday:  d.Equal(t),
			Disabled: d.After(t),
		}
	}
	return days
}

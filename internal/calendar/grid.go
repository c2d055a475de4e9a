package calendar

import (
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

// Cell is one day of a month or week view.
type Cell struct {
	Date    string
	Day     int
	InMonth bool
	IsToday bool
}

// MonthGrid returns the 6x7 grid for the month, starting on the Sunday on or
// before the 1st. Days of the neighbouring months have InMonth false.
func MonthGrid(year int, month time.Month, today time.Time) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := utils.StartOfWeek(first)
	t := utils.DateOf(today)

	cells := make([]Cell, constants.MonthGridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:    utils.FormatDate(d),
			Day:     d.Day(),
			InMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			IsToday: d.Equal(t),
		}
	}
	return cells
}

// WeekGrid returns the 7 days of the Sunday-started week containing ref.
func WeekGrid(ref, today time.Time) []Cell {
	start := utils.StartOfWeek(ref)
	t := utils.DateOf(today)

	cells := make([]Cell, 7)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:    utils.FormatDate(d),
			Day:     d.Day(),
			InMonth: true,
			IsToday: d.Equal(t),
		}
	}
	return cells
}

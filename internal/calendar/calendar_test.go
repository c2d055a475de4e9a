package calendar

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

var today = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) (*Store, storage.Provider) {
	t.Helper()
	p := storage.NewJSONStore(filepath.Join(t.TempDir(), "studyflow.json"))
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, p
}

func mustAdd(t *testing.T, s *Store, in NewEvent) models.Event {
	t.Helper()
	e, err := s.Add(in)
	if err != nil || e == nil {
		t.Fatalf("Add(%+v) = %v, %v", in, e, err)
	}
	return *e
}

func TestAddDefaultsAndOrder(t *testing.T) {
	s, _ := setupStore(t)

	first := mustAdd(t, s, NewEvent{Title: "Calculus exam", Date: "2024-03-20", Category: models.EventCategoryExam})
	second := mustAdd(t, s, NewEvent{Title: " Study group ", Date: "2024-03-14", Time: "16:00"})

	if second.Title != "Study group" {
		t.Errorf("title = %q", second.Title)
	}
	if second.Duration != 60 || second.Category != models.EventCategoryStudy || second.Color != models.ColorBlue {
		t.Errorf("defaults = %d/%s/%s", second.Duration, second.Category, second.Color)
	}

	all := s.All()
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Error("Add should append")
	}
}

func TestAddIgnoresBlankTitleOrDate(t *testing.T) {
	s, _ := setupStore(t)

	for _, in := range []NewEvent{{Title: "", Date: "2024-03-14"}, {Title: "x", Date: ""}, {Title: "  ", Date: " "}} {
		e, err := s.Add(in)
		if e != nil || err != nil {
			t.Errorf("Add(%+v) = %v, %v; want nil, nil", in, e, err)
		}
	}
	if len(s.All()) != 0 {
		t.Error("no event should have been created")
	}
}

func TestAddRejectsMalformedDateTime(t *testing.T) {
	s, _ := setupStore(t)

	if _, err := s.Add(NewEvent{Title: "x", Date: "14/03/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date error = %v", err)
	}
	if _, err := s.Add(NewEvent{Title: "x", Date: "2024-03-14", Time: "4pm"}); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("bad time error = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s, _ := setupStore(t)
	e := mustAdd(t, s, NewEvent{Title: "Lab", Date: "2024-03-14", Time: "09:00"})

	blank := ""
	got, err := s.Update(e.ID, Patch{Title: &blank})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "Lab" {
		t.Error("blank-title patch should be ignored")
	}

	newDate := "2024-03-15"
	clearTime := ""
	dur := 90
	red := models.ColorRed
	got, err = s.Update(e.ID, Patch{Date: &newDate, Time: &clearTime, Duration: &dur, Color: &red})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Date != newDate || got.Time != "" || got.Duration != 90 || got.Color != red {
		t.Errorf("Update result = %+v", got)
	}

	badDate := "soon"
	if _, err := s.Update(e.ID, Patch{Date: &badDate}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date error = %v", err)
	}
	if stored, _ := s.Get(e.ID); stored.Date != newDate {
		t.Error("failed update changed the stored event")
	}

	if _, err := s.Update("missing", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := setupStore(t)
	e := mustAdd(t, s, NewEvent{Title: "x", Date: "2024-03-14"})

	if err := s.Delete(e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestEventsOn(t *testing.T) {
	s, _ := setupStore(t)
	mustAdd(t, s, NewEvent{Title: "a", Date: "2024-03-14"})
	mustAdd(t, s, NewEvent{Title: "b", Date: "2024-03-15"})
	mustAdd(t, s, NewEvent{Title: "c", Date: "2024-03-14"})

	got := s.EventsOn("2024-03-14")
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("EventsOn = %v", got)
	}
	if len(s.EventsOn("2024-01-01")) != 0 {
		t.Error("expected no events")
	}
}

func TestUpcoming(t *testing.T) {
	s, _ := setupStore(t)
	mustAdd(t, s, NewEvent{Title: "past", Date: "2024-03-12"})
	mustAdd(t, s, NewEvent{Title: "later", Date: "2024-04-01"})
	mustAdd(t, s, NewEvent{Title: "today-pm", Date: "2024-03-13", Time: "15:00"})
	mustAdd(t, s, NewEvent{Title: "today-am", Date: "2024-03-13", Time: "08:00"})
	mustAdd(t, s, NewEvent{Title: "tomorrow", Date: "2024-03-14"})
	mustAdd(t, s, NewEvent{Title: "next-week", Date: "2024-03-20"})
	mustAdd(t, s, NewEvent{Title: "far", Date: "2024-06-01"})

	got := s.Upcoming(today)
	want := []string{"today-am", "today-pm", "tomorrow", "next-week", "later"}
	if len(got) != len(want) {
		t.Fatalf("Upcoming returned %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Errorf("Upcoming[%d] = %s, want %s", i, got[i].Title, want[i])
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, p := setupStore(t)
	e := mustAdd(t, s, NewEvent{Title: "Exam", Description: "room 101", Date: "2024-03-20", Time: "09:30", Duration: 120, Category: models.EventCategoryExam, Color: models.ColorRed})

	reopened, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got, err := reopened.Get(e.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != e.Title || *got.Description != "room 101" || got.Date != e.Date || got.Time != e.Time ||
		got.Duration != 120 || got.Category != e.Category || got.Color != e.Color || !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("round trip = %+v, want %+v", got, e)
	}
}

func TestMonthGridAlwaysHas42Cells(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := MonthGrid(year, month, today)
			if len(cells) != 42 {
				t.Fatalf("%d-%02d: %d cells", year, month, len(cells))
			}

			first, _ := time.Parse("2006-01-02", cells[0].Date)
			if first.Weekday() != time.Sunday {
				t.Errorf("%d-%02d: grid starts on %s", year, month, first.Weekday())
			}

			daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			inMonth := 0
			for i, c := range cells {
				if c.InMonth {
					inMonth++
				}
				if i > 0 {
					prev, _ := time.Parse("2006-01-02", cells[i-1].Date)
					cur, _ := time.Parse("2006-01-02", c.Date)
					if cur.Sub(prev) != 24*time.Hour {
						t.Errorf("%d-%02d: cells %d and %d are not consecutive", year, month, i-1, i)
					}
				}
			}
			if inMonth != daysInMonth {
				t.Errorf("%d-%02d: %d in-month cells, want %d", year, month, inMonth, daysInMonth)
			}
		}
	}
}

func TestMonthGridFebruary2026(t *testing.T) {
	// February 2026 starts on a Sunday and has 28 days
	cells := MonthGrid(2026, time.February, today)
	if cells[0].Date != "2026-02-01" || !cells[0].InMonth {
		t.Errorf("first cell = %+v", cells[0])
	}
	if cells[28].Date != "2026-03-01" || cells[28].InMonth {
		t.Errorf("cell 28 = %+v", cells[28])
	}
}

func TestMonthGridMarksToday(t *testing.T) {
	cells := MonthGrid(2024, time.March, today)
	count := 0
	for _, c := range cells {
		if c.IsToday {
			count++
			if c.Date != "2024-03-13" || c.Day != 13 {
				t.Errorf("today cell = %+v", c)
			}
		}
	}
	if count != 1 {
		t.Errorf("%d cells marked today", count)
	}
}

func TestWeekGrid(t *testing.T) {
	cells := WeekGrid(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), today)
	if len(cells) != 7 {
		t.Fatalf("WeekGrid returned %d cells", len(cells))
	}
	if cells[0].Date != "2024-02-25" || cells[6].Date != "2024-03-02" {
		t.Errorf("week = %s..%s, want 2024-02-25..2024-03-02", cells[0].Date, cells[6].Date)
	}
	for _, c := range cells {
		if !c.InMonth || c.IsToday {
			t.Errorf("unexpected cell flags: %+v", c)
		}
	}
}

package events

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "studyflow.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:    store,
		Config:   config.Default(),
		Location: time.UTC,
		Out:      out,
		In:       strings.NewReader(""),
	}
	ctx.SetClock(func() time.Time { return time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC) })
	return ctx, out
}

func addEvent(t *testing.T, ctx *cli.Context, cmd EventAddCmd) string {
	t.Helper()
	if cmd.Category == "" {
		cmd.Category = "Study"
	}
	if cmd.Color == "" {
		cmd.Color = "blue"
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	store, err := ctx.Calendar()
	if err != nil {
		t.Fatal(err)
	}
	all := store.All()
	return all[len(all)-1].ID
}

func TestEventAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	id := addEvent(t, ctx, EventAddCmd{Title: "Calculus exam", Date: "2024-03-20", Time: "09:30", Category: "exam"})

	if !strings.Contains(out.String(), "Added event: Calculus exam on 2024-03-20 09:30") {
		t.Errorf("unexpected output: %q", out.String())
	}
	store, _ := ctx.Calendar()
	e, _ := store.Get(id)
	if e.Category != "Exam" || e.Duration != 60 {
		t.Errorf("event = %+v", e)
	}

	// date defaults to today
	id = addEvent(t, ctx, EventAddCmd{Title: "Study group"})
	store, _ = ctx.Calendar()
	e, _ = store.Get(id)
	if e.Date != "2024-03-13" || e.Time != "" {
		t.Errorf("default date/time = %q %q", e.Date, e.Time)
	}

	bad := []EventAddCmd{
		{Title: " ", Category: "Study", Color: "blue"},
		{Title: "x", Date: "2024-13-01", Category: "Study", Color: "blue"},
		{Title: "x", Time: "25:00", Category: "Study", Color: "blue"},
		{Title: "x", Category: "Party", Color: "blue"},
	}
	for _, cmd := range bad {
		if err := cmd.Run(ctx); err == nil {
			t.Errorf("expected %+v to fail", cmd)
		}
	}
	if err := (&EventAddCmd{Title: "x", Duration: -5}).Validate(); err == nil {
		t.Error("negative duration should be rejected")
	}
}

func TestEventEditCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	id := addEvent(t, ctx, EventAddCmd{Title: "Office hours", Date: "2024-03-14", Time: "14:00", Duration: 30})

	date := "2024-03-15"
	none := ""
	color := "purple"
	if err := (&EventEditCmd{ID: id[:8], Date: &date, Time: &none, Color: &color}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	store, _ := ctx.Calendar()
	e, _ := store.Get(id)
	if e.Date != date || e.Time != "" || e.Color != "purple" || e.Duration != 30 {
		t.Errorf("edited event = %+v", e)
	}

	badTime := "noon"
	if err := (&EventEditCmd{ID: id, Time: &badTime}).Run(ctx); err == nil {
		t.Error("expected an invalid time error")
	}
	if err := (&EventEditCmd{ID: "zzz", Date: &date}).Run(ctx); err == nil {
		t.Error("expected a not found error")
	}
}

func TestEventDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	id := addEvent(t, ctx, EventAddCmd{Title: "Dentist", Date: "2024-03-18", Category: "Personal"})

	if err := (&EventDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Deleted event: Dentist") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if err := (&EventDeleteCmd{ID: id}).Run(ctx); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestEventListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEvent(t, ctx, EventAddCmd{Title: "Lecture", Time: "10:00", Description: "Room 204"})
	addEvent(t, ctx, EventAddCmd{Title: "Gym", Date: "2024-03-14"})

	out.Reset()
	if err := (&EventListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "Events on 2024-03-13:") || !strings.Contains(s, "10:00   Lecture [Study, 60m]") || !strings.Contains(s, "Room 204") {
		t.Errorf("list output = %q", s)
	}
	if strings.Contains(s, "Gym") {
		t.Errorf("events from other days should not be listed: %q", s)
	}

	out.Reset()
	if err := (&EventListCmd{Date: "2024-03-01"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "No events on 2024-03-01" {
		t.Errorf("empty day output = %q", out.String())
	}
	if err := (&EventListCmd{Date: "March 1"}).Run(ctx); err == nil {
		t.Error("expected an invalid date error")
	}
}

func TestEventMonthCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEvent(t, ctx, EventAddCmd{Title: "Exam", Date: "2024-03-20"})

	out.Reset()
	if err := (&EventMonthCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if lines[0] != "March 2024" {
		t.Errorf("title = %q", lines[0])
	}
	// title, weekday header, six weeks
	if len(lines) != 8 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	if !strings.Contains(out.String(), "[13]") {
		t.Errorf("today should be bracketed: %q", out.String())
	}
	if !strings.Contains(out.String(), "20 *") {
		t.Errorf("a day with events should be marked: %q", out.String())
	}

	out.Reset()
	if err := (&EventMonthCmd{Month: "2026-02"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "February 2026\n") {
		t.Errorf("month title = %q", out.String())
	}
	if err := (&EventMonthCmd{Month: "2026-2-1"}).Run(ctx); err == nil {
		t.Error("expected an invalid month error")
	}
}

func TestEventWeekAndUpcoming(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEvent(t, ctx, EventAddCmd{Title: "Past", Date: "2024-03-01"})
	addEvent(t, ctx, EventAddCmd{Title: "Later", Date: "2024-03-16", Time: "18:00"})
	addEvent(t, ctx, EventAddCmd{Title: "Soon", Date: "2024-03-13", Time: "17:00"})

	out.Reset()
	if err := (&EventWeekCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "Sun 2024-03-10\n") || !strings.Contains(s, "Wed 2024-03-13 (today)") || !strings.Contains(s, "Sat 2024-03-16") {
		t.Errorf("week output = %q", s)
	}

	out.Reset()
	if err := (&EventUpcomingCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s = out.String()
	soon, later := strings.Index(s, "Soon"), strings.Index(s, "Later")
	if soon < 0 || later < 0 || soon > later || strings.Contains(s, "Past") {
		t.Errorf("upcoming output = %q", s)
	}
}

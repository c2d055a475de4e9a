// Package timer implements the pomodoro focus timer.
package timer

import (
	"fmt"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
)

type SessionType string

const (
	Focus      SessionType = "focus"
	ShortBreak SessionType = "shortBreak"
	LongBreak  SessionType = "longBreak"
)

// Label is the heading shown for a session type.
func (s SessionType) Label() string {
	switch s {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Focus Session"
	}
}

type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// Durations is the full length of each session type.
type Durations struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

func DefaultDurations() Durations {
	return Durations{
		Focus:      constants.DefaultFocusMin * time.Minute,
		ShortBreak: constants.DefaultShortBreakMin * time.Minute,
		LongBreak:  constants.DefaultLongBreakMin * time.Minute,
	}
}

func DurationsFromConfig(cfg config.TimerConfig) Durations {
	return Durations{
		Focus:      time.Duration(cfg.FocusMin) * time.Minute,
		ShortBreak: time.Duration(cfg.ShortBreakMin) * time.Minute,
		LongBreak:  time.Duration(cfg.LongBreakMin) * time.Minute,
	}
}

func (d Durations) of(s SessionType) time.Duration {
	switch s {
	case ShortBreak:
		return d.ShortBreak
	case LongBreak:
		return d.LongBreak
	default:
		return d.Focus
	}
}

// Timer is not safe for concurrent use; the TUI drives it from its update loop.
type Timer struct {
	durations Durations
	session   SessionType
	state     State
	remaining time.Duration
	completed int
}

// New returns an idle timer at the start of a focus session.
func New(d Durations) *Timer {
	return &Timer{
		durations: d,
		session:   Focus,
		state:     Idle,
		remaining: d.Focus,
	}
}

func (t *Timer) Session() SessionType { return t.session }
func (t *Timer) State() State { return t.state }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Durations() Durations { return t.durations }
func (t *Timer) CompletedSessions() int { return t.completed }
func (t *Timer) total() time.Duration { return t.durations.of(t.session) }

func (t *Timer) Start() {
	if t.remaining > 0 {
		t.state = Running
	}
}

func (t *Timer) Pause() {
	if t.state == Running {
		t.state = Paused
	}
}

// Reset returns the current session to its full length.
func (t *Timer) Reset() {
	t.state = Idle
	t.remaining = t.total()
}

// Switch moves to session s at full length.
func (t *Timer) Switch(s SessionType) {
	t.session = s
	t.Reset()
}

// SetDurations changes the session lengths. An idle timer picks up the new
// length immediately; a started one keeps its remaining time.
func (t *Timer) SetDurations(d Durations) {
	t.durations = d
	if t.state == Idle {
		t.remaining = t.total()
	}
}

// Tick advances a running timer by d. It reports whether the session
// completed, in which case the timer has moved to the next session.
func (t *Timer) Tick(d time.Duration) bool {
	if t.state != Running {
		return false
	}
	t.remaining -= d
	if t.remaining > 0 {
		return false
	}

	next := Focus
	if t.session == Focus {
		t.completed++
		next = ShortBreak
		if t.completed%constants.SessionsPerLongBreak == 0 {
			next = LongBreak
		}
	}
	t.Switch(next)
	return true
}

// Progress is the elapsed share of the session, 0 to 100.
func (t *Timer) Progress() float64 {
	total := t.total()
	if total <= 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total) * 100
}

// Format renders the remaining time as MM:SS, rounding partial seconds up.
func (t *Timer) Format() string {
	secs := int((t.remaining + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

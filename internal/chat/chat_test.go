package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

type fakeRelay struct {
	reply    string
	err      error
	calls    int
	messages []string
	history  [][]models.Turn
}

func (f *fakeRelay) Ask(_ context.Context, message string, history []models.Turn) (string, error) {
	f.calls++
	f.messages = append(f.messages, message)
	f.history = append(f.history, history)
	return f.reply, f.err
}

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

// clock returns a now func that advances one second per call.
func clock() func() time.Time {
	t := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestSendCreatesSessionAndTitles(t *testing.T) {
	s, _ := setupStore(t)
	relay := &fakeRelay{reply: "Try the Pomodoro technique."}

	msg, err := s.Send(context.Background(), relay, "How do I focus better?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.Role != models.RoleAssistant || msg.Content != "Try the Pomodoro technique." {
		t.Errorf("reply = %+v", msg)
	}

	sessions := s.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	sess := sessions[0]
	if sess.Title != "How do I focus better?" {
		t.Errorf("title = %q", sess.Title)
	}
	if len(sess.Messages) != 2 || sess.Messages[0].Role != models.RoleUser || sess.Messages[1].Role != models.RoleAssistant {
		t.Errorf("messages = %+v", sess.Messages)
	}
	if s.ActiveID() != sess.ID {
		t.Error("new session should be active")
	}
	if relay.calls != 1 || len(relay.history[0]) != 0 {
		t.Errorf("first message should be sent with empty history, got %v", relay.history)
	}
}

func TestSendForwardsPriorHistory(t *testing.T) {
	s, _ := setupStore(t)
	relay := &fakeRelay{reply: "ok"}

	s.Send(context.Background(), relay, "first")
	s.Send(context.Background(), relay, "second")

	if relay.calls != 2 {
		t.Fatalf("relay called %d times", relay.calls)
	}
	h := relay.history[1]
	if len(h) != 2 || h[0].Content != "first" || h[1].Role != models.RoleAssistant {
		t.Errorf("history = %+v, want the first exchange only", h)
	}
	if relay.messages[1] != "second" {
		t.Errorf("message = %q", relay.messages[1])
	}
}

func TestSendBlankIsNoop(t *testing.T) {
	s, _ := setupStore(t)
	relay := &fakeRelay{}

	msg, err := s.Send(context.Background(), relay, "   ")
	if msg != nil || err != nil {
		t.Errorf("Send(blank) = %v, %v", msg, err)
	}
	if relay.calls != 0 || len(s.Sessions()) != 0 {
		t.Error("blank message should not reach the relay or create a session")
	}
}

func TestSendRelayFailureUsesFallback(t *testing.T) {
	s, _ := setupStore(t)
	relay := &fakeRelay{err: errors.New("upstream 500")}

	msg, err := s.Send(context.Background(), relay, "help")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.Content != "I'm sorry, I encountered an error. Please try again." {
		t.Errorf("fallback = %q", msg.Content)
	}
}

func TestTitleSetOnlyFromFirstMessage(t *testing.T) {
	s, _ := setupStore(t)
	relay := &fakeRelay{reply: "ok"}

	long := "Can you explain the difference between mitosis and meiosis?"
	s.Send(context.Background(), relay, long)
	s.Send(context.Background(), relay, "thanks")

	sess, _ := s.Active()
	want := "Can you explain the difference..."
	if sess.Title != want {
		t.Errorf("title = %q, want %q", sess.Title, want)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"short", "short"},
		{strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{strings.Repeat("é", 31), strings.Repeat("é", 30) + "..."},
	}
	for _, tt := range tests {
		if got := Title(tt.in); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSessionPrependsAndActivates(t *testing.T) {
	s, _ := setupStore(t)
	s.now = clock()

	a, _ := s.NewSession()
	b, err := s.NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if b.Title != "New Chat" || len(b.Messages) != 0 {
		t.Errorf("new session = %+v", b)
	}
	sessions := s.Sessions()
	if sessions[0].ID != b.ID || sessions[1].ID != a.ID {
		t.Error("sessions should be newest first")
	}
	if s.ActiveID() != b.ID {
		t.Error("newest session should be active")
	}
}

func TestDeleteReselects(t *testing.T) {
	s, _ := setupStore(t)
	s.now = clock()

	a, _ := s.NewSession()
	b, _ := s.NewSession()

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.ActiveID() != b.ID {
		t.Error("deleting an inactive session should keep the active one")
	}

	c, _ := s.NewSession()
	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.ActiveID() != b.ID {
		t.Errorf("active = %s, want first remaining %s", s.ActiveID(), b.ID)
	}

	s.Delete(b.ID)
	if _, ok := s.Active(); ok || s.ActiveID() != "" {
		t.Error("no session should be active after deleting the last one")
	}
	if err := s.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestFinishAfterSessionDeleted(t *testing.T) {
	s, _ := setupStore(t)

	p, err := s.Begin("hello")
	if err != nil || p == nil {
		t.Fatalf("Begin = %v, %v", p, err)
	}
	s.Delete(p.SessionID)

	if _, err := s.Finish(p, "late reply", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish error = %v", err)
	}
}

func TestOpenSelectsLatestUpdated(t *testing.T) {
	s, p := setupStore(t)
	s.now = clock()
	relay := &fakeRelay{reply: "ok"}

	older, _ := s.NewSession()
	s.NewSession()
	// Writing to the older session makes it the most recently updated
	s.SetActive(older.ID)
	s.Send(context.Background(), relay, "bump")

	reopened, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if reopened.ActiveID() != older.ID {
		t.Errorf("active after reload = %s, want %s", reopened.ActiveID(), older.ID)
	}
	sess, _ := reopened.Get(older.ID)
	if len(sess.Messages) != 2 || sess.Title != "bump" {
		t.Errorf("reloaded session = %+v", sess)
	}
	if sess.Messages[0].Timestamp.IsZero() {
		t.Error("message timestamps should survive a reload")
	}
}

func TestSetActiveUnknown(t *testing.T) {
	s, _ := setupStore(t)
	if err := s.SetActive("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetActive error = %v", err)
	}
}

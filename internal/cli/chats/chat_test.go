package chats

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chaisa2/student-productivity-help-app/internal/chat"
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

type stubRelay struct {
	reply   string
	err     error
	history []models.Turn
}

func (s *stubRelay) Ask(_ context.Context, _ string, history []models.Turn) (string, error) {
	s.history = history
	return s.reply, s.err
}

func setupTestContext(t *testing.T, r *stubRelay) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewJSONStore(filepath.Join(dir, "studyflow.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	old := relayFor
	t.Cleanup(func() { relayFor = old })
	relayFor = func(*cli.Context) chat.Relay { return r }

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		Config:    config.Default(),
		ConfigDir: dir,
		Out:       out,
		In:        strings.NewReader(""),
	}
	return ctx, out
}

func send(t *testing.T, ctx *cli.Context, words ...string) {
	t.Helper()
	if err := (&ChatSendCmd{Message: words, Style: "notty"}).Run(ctx); err != nil {
		t.Fatalf("send failed: %v", err)
	}
}

func TestChatSendCmd(t *testing.T) {
	r := &stubRelay{reply: "Take short breaks."}
	ctx, out := setupTestContext(t, r)

	send(t, ctx, "How", "do", "I", "focus", "better?")
	if !strings.Contains(out.String(), "Take short breaks.") {
		t.Errorf("reply not printed: %q", out.String())
	}

	store, err := ctx.Chats()
	if err != nil {
		t.Fatal(err)
	}
	sessions := store.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d", len(sessions))
	}
	if sessions[0].Title != "How do I focus better?" || len(sessions[0].Messages) != 2 {
		t.Errorf("session = %+v", sessions[0])
	}

	send(t, ctx, "And", "after", "lunch?")
	if len(r.history) != 2 {
		t.Errorf("second message should carry the first exchange, got %d turns", len(r.history))
	}

	if err := (&ChatSendCmd{Message: []string{"  "}}).Run(ctx); err == nil {
		t.Error("a blank message should be rejected")
	}
}

func TestChatSendCmdRelayFailure(t *testing.T) {
	ctx, out := setupTestContext(t, &stubRelay{err: errors.New("connection refused")})

	send(t, ctx, "hello")
	if !strings.Contains(out.String(), "encountered an error") {
		t.Errorf("expected the fallback reply, got %q", out.String())
	}
}

func TestChatUseAndList(t *testing.T) {
	ctx, out := setupTestContext(t, &stubRelay{reply: "ok"})

	send(t, ctx, "first", "chat")
	if err := (&ChatNewCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	send(t, ctx, "second", "chat")

	store, _ := ctx.Chats()
	sessions := store.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d", len(sessions))
	}
	first := sessions[1]

	if err := (&ChatUseCmd{ID: first.ID[:8]}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	send(t, ctx, "back", "again")

	store, _ = ctx.Chats()
	got, _ := store.Get(first.ID)
	if len(got.Messages) != 4 {
		t.Errorf("message should go to the selected chat, it has %d messages", len(got.Messages))
	}

	out.Reset()
	if err := (&ChatListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if strings.Contains(line, "first chat") && !strings.HasPrefix(line, "*") {
			t.Errorf("the selected chat should be marked: %q", line)
		}
		if strings.Contains(line, "second chat") && strings.HasPrefix(line, "*") {
			t.Errorf("only one chat should be marked: %q", line)
		}
	}
	if !strings.Contains(out.String(), "(4 messages, now)") {
		t.Errorf("list output = %q", out.String())
	}

	if err := (&ChatUseCmd{ID: "nope"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown chat")
	}
}

func TestChatShowCmd(t *testing.T) {
	ctx, out := setupTestContext(t, &stubRelay{reply: "Use spaced repetition."})

	if err := (&ChatShowCmd{Style: "notty"}).Run(ctx); err == nil {
		t.Error("show without chats should fail")
	}

	send(t, ctx, "How", "should", "I", "revise?")
	out.Reset()
	if err := (&ChatShowCmd{Style: "notty"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"How should I revise?", "You", "Assistant", "Use spaced repetition."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("transcript missing %q: %q", want, out.String())
		}
	}
}

func TestChatDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t, &stubRelay{reply: "ok"})
	send(t, ctx, "only", "chat")

	store, _ := ctx.Chats()
	id := store.Sessions()[0].ID
	if err := (&ChatDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Deleted chat: only chat") {
		t.Errorf("unexpected output: %q", out.String())
	}

	var active string
	if _, err := storage.GetJSON(ctx.Store, constants.KeyActiveChat, &active); err != nil {
		t.Fatal(err)
	}
	if active != "" {
		t.Errorf("active chat after deleting the last one = %q", active)
	}

	out.Reset()
	if err := (&ChatListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "No chats yet.") {
		t.Errorf("list after delete = %q", out.String())
	}
}

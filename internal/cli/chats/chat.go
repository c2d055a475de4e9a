package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/chaisa2/student-productivity-help-app/internal/chat"
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/relay"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

// relayFor picks the relay a command talks to; tests swap it out.
var relayFor = func(ctx *cli.Context) chat.Relay {
	return relay.ForChat(ctx.Config.Relay, ctx.ConfigDir)
}

type ChatCmd struct {
	New    ChatNewCmd    `cmd:"" help:"Start a new chat session."`
	Send   ChatSendCmd   `cmd:"" help:"Send a message to the study assistant."`
	List   ChatListCmd   `cmd:"" help:"List chat sessions."`
	Show   ChatShowCmd   `cmd:"" help:"Show a chat transcript."`
	Use    ChatUseCmd    `cmd:"" help:"Select the active chat session."`
	Delete ChatDeleteCmd `cmd:"" help:"Delete a chat session."`
}

// openStore loads the sessions and restores the CLI's last selection.
func openStore(ctx *cli.Context) (*chat.Store, error) {
	store, err := ctx.Chats()
	if err != nil {
		return nil, err
	}
	var active string
	if _, err := storage.GetJSON(ctx.Store, constants.KeyActiveChat, &active); err != nil {
		return nil, err
	}
	if active != "" {
		if err := store.SetActive(active); err != nil && !errors.Is(err, chat.ErrNotFound) {
			return nil, err
		}
	}
	return store, nil
}

func saveActive(ctx *cli.Context, store *chat.Store) error {
	return storage.PutJSON(ctx.Store, constants.KeyActiveChat, store.ActiveID())
}

type ChatNewCmd struct{}

func (c *ChatNewCmd) Run(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	sess, err := store.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	if err := saveActive(ctx, store); err != nil {
		return err
	}

	ctx.Printf("Started chat: %s (ID: %s)\n", sess.Title, shortID(sess.ID))
	return nil
}

type ChatSendCmd struct {
	Message []string `arg:"" help:"Message text."`
	Style   string   `help:"Markdown style for the reply (auto|dark|light|notty)." default:"auto"`
}

func (c *ChatSendCmd) Run(ctx *cli.Context) error {
	text := strings.Join(c.Message, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}

	reply, err := store.Send(context.Background(), relayFor(ctx), text)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if err := saveActive(ctx, store); err != nil {
		return err
	}

	out, err := render(reply.Content, c.Style)
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", strings.TrimRight(out, "\n"))
	return nil
}

type ChatListCmd struct{}

func (c *ChatListCmd) Run(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}

	sessions := store.Sessions()
	if len(sessions) == 0 {
		ctx.Println("No chats yet. Start one with: studyflow chat send \"your question\"")
		return nil
	}

	now := ctx.Now()
	for _, sess := range sessions {
		marker := " "
		if sess.ID == store.ActiveID() {
			marker = "*"
		}
		ctx.Printf("%s %s  %s (%d messages, %s)\n",
			marker, shortID(sess.ID), sess.Title, len(sess.Messages),
			humanize.RelTime(sess.LastUpdated, now, "ago", "from now"))
	}
	return nil
}

type ChatShowCmd struct {
	ID    string `arg:"" optional:"" help:"Chat ID or unique prefix (default: active chat)."`
	Style string `help:"Markdown style (auto|dark|light|notty)." default:"auto"`
}

func (c *ChatShowCmd) Run(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}

	var sess models.ChatSession
	if c.ID == "" {
		active, ok := store.Active()
		if !ok {
			return fmt.Errorf("no active chat")
		}
		sess = active
	} else {
		sess, err = resolve(store, c.ID)
		if err != nil {
			return err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sess.Title)
	for _, m := range sess.Messages {
		speaker := "You"
		if m.Role == models.RoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "**%s** _%s_\n\n%s\n\n", speaker, m.Timestamp.Format("Jan 2 15:04"), m.Content)
	}

	out, err := render(b.String(), c.Style)
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", strings.TrimRight(out, "\n"))
	return nil
}

type ChatUseCmd struct {
	ID string `arg:"" help:"Chat ID or unique prefix."`
}

func (c *ChatUseCmd) Run(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	sess, err := resolve(store, c.ID)
	if err != nil {
		return err
	}
	if err := store.SetActive(sess.ID); err != nil {
		return err
	}
	if err := saveActive(ctx, store); err != nil {
		return err
	}

	ctx.Printf("Switched to chat: %s (ID: %s)\n", sess.Title, shortID(sess.ID))
	return nil
}

type ChatDeleteCmd struct {
	ID string `arg:"" help:"Chat ID or unique prefix to delete."`
}

func (c *ChatDeleteCmd) Run(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	sess, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	if err := store.Delete(sess.ID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if err := saveActive(ctx, store); err != nil {
		return err
	}

	ctx.Printf("Deleted chat: %s (ID: %s)\n", sess.Title, shortID(sess.ID))
	return nil
}

func render(markdown, style string) (string, error) {
	opt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func resolve(store *chat.Store, prefix string) (models.ChatSession, error) {
	id, err := store.Resolve(prefix)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to find chat %s: %w", prefix, err)
	}
	return store.Get(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

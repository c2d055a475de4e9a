package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/relay"
	"github.com/chaisa2/student-productivity-help-app/internal/timer"
	"github.com/chaisa2/student-productivity-help-app/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (the store is already loaded)
	ctx.PerformAutomaticBackup()

	deps, err := Deps(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}

// Deps opens every feature store for the TUI.
func Deps(ctx *cli.Context) (tui.Deps, error) {
	taskStore, err := ctx.Tasks()
	if err != nil {
		return tui.Deps{}, err
	}
	habitStore, err := ctx.Habits()
	if err != nil {
		return tui.Deps{}, err
	}
	calendarStore, err := ctx.Calendar()
	if err != nil {
		return tui.Deps{}, err
	}
	chatStore, err := ctx.Chats()
	if err != nil {
		return tui.Deps{}, err
	}

	return tui.Deps{
		Tasks:    taskStore,
		Habits:   habitStore,
		Calendar: calendarStore,
		Chats:    chatStore,
		Relay:    relay.ForChat(ctx.Config.Relay, ctx.ConfigDir),
		Timer:    timer.New(timer.DurationsFromConfig(ctx.Config.Timer)),
		Now:      ctx.Now,
	}, nil
}

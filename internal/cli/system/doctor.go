package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chaisa2/student-productivity-help-app/internal/backup"
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/relay"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

// skipError marks a check that does not apply to the current setup.
type skipError struct{ reason string }

func (e *skipError) Error() string { return e.reason }

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Chat relay", run: checkRelay, warnOnly: true},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := false

	for i, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var skip *skipError
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				reachable = true
			}
		case errors.As(err, &skip):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skip.reason)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func skipped(reason string) error {
	return &skipError{reason: reason}
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return skipped("JSON storage has no schema")
	}
	runner, err := store.Migrator()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return skipped("JSON storage has no schema")
	}
	runner, err := store.Migrator()
	if err != nil {
		return err
	}
	pending, err := runner.PendingCount()
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending; run 'studyflow migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if !backup.Supported(path) {
		return skipped("not a file-based store")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; run 'studyflow backup create'")
	}
	return nil
}

// checkValidation loads every collection and validates each record.
func checkValidation(ctx *cli.Context) error {
	var problems []error

	taskStore, err := ctx.Tasks()
	if err != nil {
		return err
	}
	for _, t := range taskStore.All() {
		if err := t.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("task %s: %w", t.ID, err))
		}
	}

	habitStore, err := ctx.Habits()
	if err != nil {
		return err
	}
	for _, h := range habitStore.All() {
		if err := h.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("habit %s: %w", h.ID, err))
		}
	}

	calendarStore, err := ctx.Calendar()
	if err != nil {
		return err
	}
	for _, e := range calendarStore.All() {
		if err := e.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("event %s: %w", e.ID, err))
		}
	}

	chatStore, err := ctx.Chats()
	if err != nil {
		return err
	}
	for _, s := range chatStore.Sessions() {
		for _, m := range s.Messages {
			if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
				problems = append(problems, fmt.Errorf("chat %s: message %s has unknown role %q", s.ID, m.ID, m.Role))
			}
		}
	}

	return errors.Join(problems...)
}

func checkClockTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	if now := ctx.Now(); now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkRelay(ctx *cli.Context) error {
	svc := relay.NewService(ctx.Config.Relay)
	provider, ok := svc.Select()
	if !ok {
		return fmt.Errorf("no AI provider credentials found; chat will reply with setup instructions")
	}

	url := ctx.Config.Relay.URL
	if url == "" {
		discovered, err := relay.Discover(ctx.ConfigDir)
		if errors.Is(err, relay.ErrNoRelay) {
			logger.Debug("No relay running, chat uses the in-process relay", "provider", provider.Name())
			return nil
		}
		if err != nil {
			return err
		}
		url = discovered
	}

	hctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := relay.NewClient(url, 0).Health(hctx); err != nil {
		return fmt.Errorf("relay at %s is not healthy: %w", url, err)
	}
	return nil
}

package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/backups"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/chats"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/events"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/habits"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/system"
	"github.com/chaisa2/student-productivity-help-app/internal/cli/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/config"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	apperrors "github.com/chaisa2/student-productivity-help-app/internal/errors"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

var CLI struct {
	Version    kong.VersionFlag
	Store      string `help:"Store path (.db for SQLite, .json for a JSON file), a PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." type:"string" default:"${store}" env:"STUDYFLOW_STORE"`
	ConfigFile string `help:"Config file path." type:"string" default:"${config}" env:"STUDYFLOW_CONFIG_PATH"`
	Debug      bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize studyflow storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Run the chat relay HTTP server."`
	Task    struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit an existing task."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		Stats  tasks.TaskStatsCmd  `cmd:"" help:"Show task progress."`
	} `cmd:"" help:"Manage tasks."`
	Habit  habits.HabitCmd `cmd:"" help:"Manage habits and habit tracking."`
	Event  events.EventCmd `cmd:"" help:"Manage calendar events."`
	Chat   chats.ChatCmd   `cmd:"" help:"Talk to the study assistant."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage secrets in the OS keyring."`
}

// Commands that open or inspect the store themselves.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"serve":   true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Student productivity suite: focus timer, tasks, habits, calendar and a study assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"store":   constants.DefaultStorePath,
			"config":  constants.DefaultConfigFile,
		},
	)

	command := strings.Fields(ctx.Command())[0]

	configPath, err := utils.ExpandPath(CLI.ConfigFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	configDir := filepath.Dir(configPath)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Console:   command == "serve",
	}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	store, err := cli.OpenStore(CLI.Store)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx, err := cli.NewContext(store, cfg, configDir)
	if err != nil {
		apperrors.Fatal(err)
	}

	if !selfLoading[command] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
	"github.com/chaisa2/student-productivity-help-app/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing storage before initialization."`
	Source string `help:"Source store path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	fileStore := !postgres.IsConnString(path)

	// If force flag is provided, delete existing storage
	if c.Force && fileStore {
		// Don't delete if it's the source (user error protection)
		if c.Source != "" && samePath(path, c.Source) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
		if _, err := os.Stat(path); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			ctx.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	// A JSON document can only be created once; SQLite and PostgreSQL re-run migrations
	if _, isJSON := ctx.Store.(*storage.JSONStore); isJSON && fileExists(path) {
		if err := ctx.Store.Load(); err != nil {
			return err
		}
		ctx.Printf("Storage already initialized at: %s\n", path)
	} else {
		if err := ctx.Store.Init(); err != nil {
			return err
		}
		ctx.Printf("Initialized studyflow storage at: %s\n", path)
	}

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		n, err := c.copyData(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Migration completed successfully! (%d collections)\n", n)
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) (int, error) {
	src, err := cli.OpenStore(c.Source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	return storage.Copy(ctx.Store, src)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

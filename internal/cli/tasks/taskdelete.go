package tasks

import (
	"fmt"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
)

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Tasks()
	if err != nil {
		return err
	}
	// Check if task exists first
	task, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	if err := store.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	ctx.Printf("Deleted task: %s (ID: %s)\n", task.Title, shortID(task.ID))
	return nil
}

package tasks

import (
	"fmt"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
)

// TaskDoneCmd toggles completion, so running it twice reopens the task.
type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Tasks()
	if err != nil {
		return err
	}
	task, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	task, err = store.Toggle(task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if task.Completed {
		ctx.Printf("✓ Completed task: %s\n", task.Title)
	} else {
		ctx.Printf("Reopened task: %s\n", task.Title)
	}
	return nil
}

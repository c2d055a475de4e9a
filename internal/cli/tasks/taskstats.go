package tasks

import (
	"github.com/chaisa2/student-productivity-help-app/internal/cli"
)

type TaskStatsCmd struct{}

func (c *TaskStatsCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Tasks()
	if err != nil {
		return err
	}

	stats := store.Stats()
	ctx.Printf("Total:     %d\n", stats.Total)
	ctx.Printf("Completed: %d\n", stats.Completed)
	ctx.Printf("Progress:  %d%%\n", stats.Percentage)
	return nil
}

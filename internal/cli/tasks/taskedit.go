package tasks

import (
	"fmt"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task ID or unique prefix."`
	Title       *string `help:"New task title."`
	Description *string `short:"d" help:"New description (empty clears it)."`
	Category    *string `short:"c" help:"New category (Personal|Work|Study|Health|Other)."`
	Priority    *string `short:"p" help:"New priority (low|medium|high)."`
	Due         *string `help:"New due date (YYYY-MM-DD, empty clears it)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Tasks()
	if err != nil {
		return err
	}
	task, err := resolve(store, c.ID)
	if err != nil {
		return err
	}

	patch := tasks.Patch{
		Title:       c.Title,
		Description: c.Description,
	}
	if c.Category != nil {
		category, err := models.ParseTaskCategory(*c.Category)
		if err != nil {
			return err
		}
		patch.Category = &category
	}
	if c.Priority != nil {
		priority, err := models.ParsePriority(*c.Priority)
		if err != nil {
			return err
		}
		patch.Priority = &priority
	}
	if c.Due != nil {
		if *c.Due == "" {
			patch.ClearDueDate = true
		} else {
			due, err := utils.ParseDate(*c.Due)
			if err != nil {
				return fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", *c.Due)
			}
			patch.DueDate = &due
		}
	}

	updated, err := store.Update(task.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	ctx.Printf("Updated task: %s (ID: %s)\n", updated.Title, shortID(updated.ID))
	return nil
}

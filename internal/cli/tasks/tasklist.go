package tasks

import (
	"fmt"
	"strings"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type TaskListCmd struct {
	Status   string `short:"s" help:"Filter by status (all|active|completed)." default:"all"`
	Category string `short:"c" help:"Filter by category, or 'all'." default:"all"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	status, err := tasks.ParseStatusFilter(c.Status)
	if err != nil {
		return err
	}
	if !strings.EqualFold(c.Category, tasks.CategoryAll) {
		if _, err := models.ParseTaskCategory(c.Category); err != nil {
			return err
		}
	}

	store, err := ctx.Tasks()
	if err != nil {
		return err
	}

	list := store.Filter(status, c.Category)
	if len(list) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	ctx.Println("Tasks:")
	for _, task := range list {
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		ctx.Printf("  %s %s (ID: %s) - %s, %s priority%s\n",
			check, task.Title, shortID(task.ID), task.Category, task.Priority, formatDue(task))
		if task.Description != nil {
			ctx.Printf("      %s\n", *task.Description)
		}
	}
	return nil
}

func formatDue(task models.Task) string {
	if task.DueDate == nil {
		return ""
	}
	return fmt.Sprintf(", due %s", utils.FormatDate(*task.DueDate))
}

package tasks

import (
	"fmt"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Optional description."`
	Category    string `short:"c" help:"Category (Personal|Work|Study|Health|Other)." default:"Study"`
	Priority    string `short:"p" help:"Priority (low|medium|high)." default:"medium"`
	Due         string `help:"Due date (YYYY-MM-DD)."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Due != "" && !utils.ValidateDateFormat(c.Due) {
		return fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", c.Due)
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseTaskCategory(c.Category)
	if err != nil {
		return err
	}
	priority, err := models.ParsePriority(c.Priority)
	if err != nil {
		return err
	}

	in := tasks.NewTask{
		Title:       c.Title,
		Description: c.Description,
		Category:    category,
		Priority:    priority,
	}
	if c.Due != "" {
		due, err := utils.ParseDate(c.Due)
		if err != nil {
			return fmt.Errorf("invalid due date: %w", err)
		}
		in.DueDate = &due
	}

	store, err := ctx.Tasks()
	if err != nil {
		return err
	}
	task, err := store.Add(in)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task title cannot be empty")
	}

	ctx.Printf("Added task: %s (ID: %s)\n", task.Title, shortID(task.ID))
	return nil
}

// shortID is the id prefix printed in listings; any unique prefix resolves.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func resolve(store *tasks.Store, prefix string) (models.Task, error) {
	id, err := store.Resolve(prefix)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to find task %s: %w", prefix, err)
	}
	return store.Get(id)
}

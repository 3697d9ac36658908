package main

import (
	"clementus360/task-manager/engine"
	"clementus360/task-manager/types"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter   engine.Filter
		status   string
		priority string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = engine.Status(status)
			switch filter.Status {
			case engine.StatusAll, engine.StatusActive, engine.StatusCompleted:
			default:
				return fmt.Errorf("invalid --status %q (all, active, completed)", status)
			}
			p := types.Priority(priority)
			if p != "" && !p.Valid() {
				return fmt.Errorf("invalid --priority %q (low, medium, high)", priority)
			}

			if err := a.load(cmd.Context(), types.TaskFilter{Priority: p}); err != nil {
				return err
			}
			view := a.engine.View(filter)
			renderTasks(a.out, view, a.engine.Categories())
			renderProgress(a.out, engine.ProgressOf(a.engine.Tasks()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Category, "category", "c", "All", "category name or id")
	cmd.Flags().StringVarP(&status, "status", "s", string(engine.StatusAll), "all, active or completed")
	cmd.Flags().StringVarP(&filter.Search, "search", "q", "", "match titles containing this text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "only low, medium or high priority")

	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var (
		draft    types.TaskDraft
		priority string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the end of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Title = strings.Join(args, " ")
			draft.Priority = types.Priority(priority)
			if !draft.Priority.Valid() {
				return fmt.Errorf("invalid --priority %q (low, medium, high)", priority)
			}

			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			if category != "" {
				c, err := a.findCategory(category)
				if err != nil {
					return err
				}
				draft.CategoryID = &c.ID
			}

			task, ok := a.engine.AddTask(cmd.Context(), draft)
			if !ok {
				return a.failed("a task needs a title")
			}
			fmt.Fprintf(a.out, "Added %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "longer description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(types.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id")

	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or active again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			task, _, err := a.findTask(args[0])
			if err != nil {
				return err
			}
			if !a.engine.ToggleCompletion(cmd.Context(), task.ID) {
				return a.failed("task not updated")
			}
			state := "active"
			if !task.Completed {
				state = "completed"
			}
			fmt.Fprintf(a.out, "%s %s is now %s\n", shortID(task.ID), task.Title, state)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		title, description, priority, category string
		clearCategory                          bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			task, _, err := a.findTask(args[0])
			if err != nil {
				return err
			}

			var u types.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				if strings.TrimSpace(title) == "" {
					return errors.New("title cannot be empty")
				}
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("priority") {
				p := types.Priority(priority)
				if !p.Valid() {
					return fmt.Errorf("invalid --priority %q (low, medium, high)", priority)
				}
				u.Priority = &p
			}
			switch {
			case clearCategory:
				u.ClearCategory = true
			case flags.Changed("category"):
				c, err := a.findCategory(category)
				if err != nil {
					return err
				}
				u.CategoryID = &c.ID
			}

			if len(u.Fields()) == 0 {
				return errors.New("nothing to change")
			}
			if !a.engine.UpdateTask(cmd.Context(), task.ID, u) {
				return a.failed("task not updated")
			}
			fmt.Fprintf(a.out, "Updated %s\n", shortID(task.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id")
	cmd.Flags().BoolVar(&clearCategory, "no-category", false, "remove the task's category")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			task, _, err := a.findTask(args[0])
			if err != nil {
				return err
			}
			if !a.engine.DeleteTask(cmd.Context(), task.ID) {
				return a.failed("task not deleted")
			}
			fmt.Fprintf(a.out, "Deleted %s %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Move a task to a 1-based position in the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[1])
			if err != nil || target < 1 {
				return fmt.Errorf("position must be a positive number, got %q", args[1])
			}
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			task, from, err := a.findTask(args[0])
			if err != nil {
				return err
			}

			to := min(target-1, len(a.engine.Tasks())-1)
			if !a.engine.MoveTask(from, to) {
				return fmt.Errorf("cannot move %s to %d", shortID(task.ID), target)
			}
			a.engine.PersistPositions(cmd.Context(), from, to)
			a.engine.Wait()

			renderTasks(a.out, a.engine.Tasks(), a.engine.Categories())
			return nil
		},
	}
}

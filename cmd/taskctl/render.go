package main

import (
	"clementus360/task-manager/engine"
	"clementus360/task-manager/types"
	"fmt"
	"io"
	"text/tabwriter"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderTasks(w io.Writer, tasks []types.Task, categories []types.Category) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tDONE\tPRIORITY\tCATEGORY\tTITLE")
	for i, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		priority := t.Priority
		if priority == "" {
			priority = types.PriorityMedium
		}
		fmt.Fprintf(tw, "%d\t%s\t[%s]\t%s\t%s\t%s\n",
			i+1, shortID(t.ID), done, priority, engine.CategoryOf(t, categories).Name, t.Title)
	}
	tw.Flush()
}

func renderProgress(w io.Writer, p engine.Progress) {
	fmt.Fprintf(w, "\n%d of %d tasks completed (%d%%)\n%s\n", p.Completed, p.Total, p.Percent, p.Message)
}

func renderCategories(w io.Writer, categories []types.Category) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tICON")
	for _, c := range categories {
		if c.ID == types.ShowAllID {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortID(c.ID), c.Name, c.Color, c.Icon)
	}
	tw.Flush()
}

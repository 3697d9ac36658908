package engine

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/types"
	"math"
	"strings"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Filter is the user's current view selection. Category is "All", a
// category name or a category id.
type Filter struct {
	Category string
	Status   Status
	Search   string
}

// Uncategorized stands in for a missing or unknown category.
var Uncategorized = types.Category{
	Name:  "Uncategorized",
	Color: config.DefaultCategoryColor,
	Icon:  config.DefaultCategoryIcon,
}

// DeriveView returns the tasks matching every part of f, in canonical
// order. It never modifies its inputs and always returns a new slice.
func DeriveView(tasks []types.Task, categories []types.Category, f Filter) []types.Task {
	categoryID, anyCategory := resolveCategory(categories, f.Category)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	view := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if !anyCategory && (t.CategoryID == nil || *t.CategoryID != categoryID) {
			continue
		}
		switch f.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		view = append(view, cloneTask(t))
	}
	return view
}

// resolveCategory maps a filter value to a category id. Names win over
// ids; an unknown value is used as an id as is.
func resolveCategory(categories []types.Category, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == types.ShowAllID || strings.EqualFold(value, types.ShowAllCategory.Name) {
		return "", true
	}
	for _, c := range categories {
		if c.ID != types.ShowAllID && strings.EqualFold(c.Name, value) {
			return c.ID, false
		}
	}
	return value, false
}

// CategoryOf returns the category a task points at, or Uncategorized when
// it has none or the reference is not in categories.
func CategoryOf(task types.Task, categories []types.Category) types.Category {
	if task.CategoryID == nil {
		return Uncategorized
	}
	for _, c := range categories {
		if c.ID == *task.CategoryID {
			return c
		}
	}
	return Uncategorized
}

type Progress struct {
	Completed int
	Total     int
	Percent   int
	Message   string
}

func ProgressOf(tasks []types.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	p.Message = motivation(p.Percent)
	return p
}

func motivation(percent int) string {
	switch {
	case percent == 0:
		return "Ready to start your day? Let's tackle these tasks!"
	case percent < 25:
		return "Great start! Keep up the momentum!"
	case percent < 50:
		return "You're making steady progress!"
	case percent < 75:
		return "More than halfway there, you're doing great!"
	case percent < 100:
		return "Almost there! Just a few more tasks to go!"
	default:
		return "Amazing! You've completed all tasks!"
	}
}

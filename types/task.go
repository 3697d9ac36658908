package types

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CategoryID  *string    `json:"category_id"`          // nullable, nil means uncategorized
	Position    int        `json:"position"`             // null decodes as 0
	Category    *Category  `json:"categories,omitempty"` // embedded join, read only
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TaskDraft is the create payload.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	Position    int      `json:"position"`
}

// Blank reports whether the draft has no usable title.
func (d TaskDraft) Blank() bool {
	return strings.TrimSpace(d.Title) == ""
}

// TaskUpdate is a partial set of task fields. Only non-nil fields are sent;
// ClearCategory sends an explicit null category.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Priority      *Priority
	Completed     *bool
	CategoryID    *string
	ClearCategory bool
}

// Fields renders the update as the wire-level partial object.
func (u TaskUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Priority != nil {
		fields["priority"] = string(*u.Priority)
	}
	if u.Completed != nil {
		fields["completed"] = *u.Completed
	}
	if u.ClearCategory {
		fields["category_id"] = nil
	} else if u.CategoryID != nil {
		fields["category_id"] = *u.CategoryID
	}
	return fields
}

// Apply copies the set fields onto t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.ClearCategory {
		t.CategoryID = nil
	} else if u.CategoryID != nil {
		id := *u.CategoryID
		t.CategoryID = &id
	}
}

// Task status filter values accepted by the list endpoint.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// TaskFilter is the server-side pre-filter for listing tasks.
type TaskFilter struct {
	Status     string
	CategoryID string
	Priority   Priority
	Search     string
}

type PositionUpdate struct {
	NewPosition *int `json:"newPosition"`
}

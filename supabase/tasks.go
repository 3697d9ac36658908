package supabase

import (
	"clementus360/task-manager/types"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const tasksTable = "tasks"

// taskColumns selects the task row plus its category.
const taskColumns = "*, categories(id, name, color, icon)"

// ListTasks returns the owner's tasks, ordered by position and then newest
// first.
func ListTasks(client *supabase.Client, userID string, filter types.TaskFilter) ([]types.Task, error) {
	query := client.From(tasksTable).
		Select(taskColumns, "", false).
		Eq("user_id", userID)

	switch filter.Status {
	case types.StatusCompleted:
		query = query.Eq("completed", boolParam(true))
	case types.StatusActive:
		query = query.Eq("completed", boolParam(false))
	}

	if filter.CategoryID != "" {
		query = query.Eq("category_id", filter.CategoryID)
	}
	if filter.Priority != "" {
		query = query.Eq("priority", string(filter.Priority))
	}
	if filter.Search != "" {
		query = query.Ilike("title", "%"+filter.Search+"%")
	}

	query = query.Order("position", &postgrest.OrderOpts{Ascending: true}).
		Order("created_at", &postgrest.OrderOpts{Ascending: false})

	resp, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	tasks := []types.Task{}
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func GetTask(client *supabase.Client, userID, taskID string) (types.Task, error) {
	resp, _, err := client.From(tasksTable).
		Select(taskColumns, "", false).
		Eq("id", taskID).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to fetch task: %w", err)
	}
	return firstTask(resp)
}

// InsertTask stores a new task owned by userID and returns the stored row.
func InsertTask(client *supabase.Client, userID string, draft types.TaskDraft) (types.Task, error) {
	task := types.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Completed:   draft.Completed,
		CategoryID:  draft.CategoryID,
		Position:    draft.Position,
		CreatedAt:   time.Now().UTC(),
	}
	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}

	resp, _, err := client.From(tasksTable).
		Insert(task, false, "", "representation", "").
		Execute()
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	created, err := firstTask(resp)
	if err == ErrNotFound {
		return types.Task{}, fmt.Errorf("no data returned after task creation")
	}
	return created, err
}

// UpdateTask applies a partial update. fields must already be validated.
func UpdateTask(client *supabase.Client, userID, taskID string, fields map[string]any) (types.Task, error) {
	row := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}
	row["updated_at"] = time.Now().UTC()

	resp, _, err := client.From(tasksTable).
		Update(row, "representation", "").
		Eq("id", taskID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return firstTask(resp)
}

func UpdateTaskPosition(client *supabase.Client, userID, taskID string, position int) error {
	resp, _, err := client.From(tasksTable).
		Update(map[string]any{"position": position}, "representation", "").
		Eq("id", taskID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update task position: %w", err)
	}
	_, err = firstTask(resp)
	return err
}

func DeleteTask(client *supabase.Client, userID, taskID string) error {
	resp, _, err := client.From(tasksTable).
		Delete("representation", "").
		Eq("id", taskID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	_, err = firstTask(resp)
	return err
}

// CategoryHasTasks reports whether any of the owner's tasks reference
// categoryID, reading at most one row.
func CategoryHasTasks(client *supabase.Client, userID, categoryID string) (bool, error) {
	resp, _, err := client.From(tasksTable).
		Select("id", "", false).
		Eq("user_id", userID).
		Eq("category_id", categoryID).
		Limit(1, "").
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to check tasks for category: %w", err)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return false, fmt.Errorf("failed to decode task ids: %w", err)
	}
	return len(rows) > 0, nil
}

func firstTask(resp []byte) (types.Task, error) {
	var tasks []types.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return types.Task{}, fmt.Errorf("failed to decode task data: %w", err)
	}
	if len(tasks) == 0 {
		return types.Task{}, ErrNotFound
	}
	return tasks[0], nil
}

// boolParam renders b the way PostgREST filters expect.
func boolParam(b bool) string {
	return strconv.FormatBool(b)
}

package client

import (
	"clementus360/task-manager/types"
	"context"
	"net/http"
	"net/url"
)

// TaskRepository is the task surface of the API.
type TaskRepository struct {
	c *Client
}

func (r *TaskRepository) List(ctx context.Context, filter types.TaskFilter) ([]types.Task, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.CategoryID != "" {
		query.Set("category_id", filter.CategoryID)
	}
	if filter.Priority != "" {
		query.Set("priority", string(filter.Priority))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var tasks []types.Task
	err := r.c.do(ctx, request{method: http.MethodGet, path: "/tasks", query: query, context: "Failed to load tasks"}, &tasks)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (types.Task, error) {
	var task types.Task
	err := r.c.do(ctx, request{method: http.MethodGet, path: "/tasks/" + url.PathEscape(id), context: "Failed to load task details"}, &task)
	return task, err
}

func (r *TaskRepository) Create(ctx context.Context, draft types.TaskDraft) (types.Task, error) {
	if draft.Blank() {
		return types.Task{}, &ValidationError{Field: "title", Message: "Title is required"}
	}
	var task types.Task
	err := r.c.do(ctx, request{method: http.MethodPost, path: "/tasks", body: draft, context: "Failed to create task"}, &task)
	return task, err
}

// Update sends only the fields set on u.
func (r *TaskRepository) Update(ctx context.Context, id string, u types.TaskUpdate) (types.Task, error) {
	fields := u.Fields()
	if len(fields) == 0 {
		return types.Task{}, &ValidationError{Field: "update", Message: "No fields to update"}
	}
	var task types.Task
	err := r.c.do(ctx, request{method: http.MethodPut, path: "/tasks/" + url.PathEscape(id), body: fields, context: "Failed to update task"}, &task)
	return task, err
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: "/tasks/" + url.PathEscape(id), context: "Failed to delete task"}, nil)
}

func (r *TaskRepository) UpdatePosition(ctx context.Context, id string, position int) error {
	if position < 0 {
		return &ValidationError{Field: "newPosition", Message: "Position must be a non-negative integer"}
	}
	body := types.PositionUpdate{NewPosition: &position}
	return r.c.do(ctx, request{method: http.MethodPut, path: "/tasks/" + url.PathEscape(id) + "/position", body: body, context: "Failed to update task order"}, nil)
}

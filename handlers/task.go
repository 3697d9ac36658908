package handlers

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/supabase"
	"clementus360/task-manager/types"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

func (h *Handler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := types.TaskFilter{
		Status:     q.Get("status"),
		CategoryID: q.Get("category_id"),
		Priority:   types.Priority(q.Get("priority")),
		Search:     sanitize(q.Get("search")),
	}

	if filter.Status != "" && filter.Status != types.StatusActive && filter.Status != types.StatusCompleted {
		writeErrorDetails(w, "Validation error", "status must be one of active, completed", http.StatusBadRequest)
		return
	}
	if filter.CategoryID != "" && !isUUID(filter.CategoryID) {
		writeErrorDetails(w, "Validation error", "Invalid category ID format", http.StatusBadRequest)
		return
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		writeErrorDetails(w, "Validation error", "priority must be one of low, medium, high", http.StatusBadRequest)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	tasks, err := store.ListTasks(filter)
	if err != nil {
		config.Logger.Error("Failed to fetch tasks: ", err)
		writeErrorDetails(w, "Database error fetching tasks", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	task, err := store.GetTask(id)
	if err != nil {
		writeTaskError(w, err, "Failed to fetch task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var draft types.TaskDraft

	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		config.Logger.Error("Failed to decode task JSON: ", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	draft.Title = sanitize(strings.TrimSpace(draft.Title))
	draft.Description = sanitize(draft.Description)

	if draft.Title == "" {
		writeErrorDetails(w, "Validation error", "Title is required", http.StatusBadRequest)
		return
	}
	if draft.Priority != "" && !draft.Priority.Valid() {
		writeErrorDetails(w, "Validation error", "priority must be one of low, medium, high", http.StatusBadRequest)
		return
	}
	if draft.CategoryID != nil && *draft.CategoryID == "" {
		draft.CategoryID = nil
	}
	if draft.CategoryID != nil && !isUUID(*draft.CategoryID) {
		writeErrorDetails(w, "Validation error", "Invalid category ID format", http.StatusBadRequest)
		return
	}
	if draft.Position < 0 {
		writeErrorDetails(w, "Validation error", "position must be a non-negative integer", http.StatusBadRequest)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	task, err := store.CreateTask(draft)
	if err != nil {
		config.Logger.Error("Failed to save task: ", err)
		writeErrorDetails(w, "Database error creating task", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.Logger.Error("Failed to decode update JSON: ", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	fields, problem := taskUpdateFields(body)
	if problem != "" {
		writeErrorDetails(w, "Validation error", problem, http.StatusBadRequest)
		return
	}
	if len(fields) == 0 {
		writeError(w, "No fields to update", http.StatusBadRequest)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	task, err := store.UpdateTask(id, fields)
	if err != nil {
		writeTaskError(w, err, "Failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) UpdateTaskPositionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}

	var body types.PositionUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewPosition == nil || *body.NewPosition < 0 {
		writeErrorDetails(w, "Validation error", "Position must be a non-negative integer", http.StatusBadRequest)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.UpdateTaskPosition(id, *body.NewPosition); err != nil {
		writeTaskError(w, err, "Failed to update task position")
		return
	}

	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Task position updated successfully"})
}

func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.DeleteTask(id); err != nil {
		writeTaskError(w, err, "Could not delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskUpdateFields keeps the updatable fields of body, validated. Unknown
// keys are ignored.
func taskUpdateFields(body map[string]any) (map[string]any, string) {
	fields := map[string]any{}

	if v, ok := body["title"]; ok {
		title, isString := v.(string)
		title = sanitize(strings.TrimSpace(title))
		if !isString || title == "" {
			return nil, "Title cannot be empty"
		}
		fields["title"] = title
	}
	if v, ok := body["description"]; ok {
		description, isString := v.(string)
		if !isString {
			return nil, "description must be a string"
		}
		fields["description"] = sanitize(description)
	}
	if v, ok := body["priority"]; ok {
		priority, _ := v.(string)
		if !types.Priority(priority).Valid() {
			return nil, "priority must be one of low, medium, high"
		}
		fields["priority"] = priority
	}
	if v, ok := body["completed"]; ok {
		completed, isBool := v.(bool)
		if !isBool {
			return nil, "completed must be a boolean"
		}
		fields["completed"] = completed
	}
	if v, ok := body["category_id"]; ok {
		switch id := v.(type) {
		case nil:
			fields["category_id"] = nil
		case string:
			if !isUUID(id) {
				return nil, "Invalid category ID format"
			}
			fields["category_id"] = id
		default:
			return nil, "Invalid category ID format"
		}
	}

	return fields, ""
}

func writeTaskError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, supabase.ErrNotFound) {
		writeError(w, "Task not found or you don't have permission to access it", http.StatusNotFound)
		return
	}
	config.Logger.Error(message+": ", err)
	writeErrorDetails(w, message, err.Error(), http.StatusInternalServerError)
}

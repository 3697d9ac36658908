package routes

import (
	"clementus360/task-manager/handlers"
	"net/http"
)

// RegisterTaskRoutes registers all task-related routes
func RegisterTaskRoutes(mux *http.ServeMux, h *handlers.Handler, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/tasks", protect(http.HandlerFunc(h.GetTasksHandler)))
	mux.Handle("POST /api/tasks", protect(http.HandlerFunc(h.CreateTaskHandler)))
	mux.Handle("GET /api/tasks/{id}", protect(http.HandlerFunc(h.GetTaskHandler)))
	mux.Handle("PUT /api/tasks/{id}", protect(http.HandlerFunc(h.UpdateTaskHandler)))
	mux.Handle("PUT /api/tasks/{id}/position", protect(http.HandlerFunc(h.UpdateTaskPositionHandler)))
	mux.Handle("DELETE /api/tasks/{id}", protect(http.HandlerFunc(h.DeleteTaskHandler)))
}

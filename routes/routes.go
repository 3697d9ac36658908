package routes

import (
	"clementus360/task-manager/handlers"
	"net/http"
)

// RegisterAllRoutes registers all application routes. protect wraps the
// routes that need an authenticated caller.
func RegisterAllRoutes(mux *http.ServeMux, h *handlers.Handler, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend is running!!!"))
	})

	RegisterAuthRoutes(mux, h, protect)
	RegisterTaskRoutes(mux, h, protect)
	RegisterCategoryRoutes(mux, h, protect)
}

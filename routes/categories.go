package routes

import (
	"clementus360/task-manager/handlers"
	"net/http"
)

// RegisterCategoryRoutes registers all category-related routes
func RegisterCategoryRoutes(mux *http.ServeMux, h *handlers.Handler, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/categories", protect(http.HandlerFunc(h.GetCategoriesHandler)))
	mux.Handle("POST /api/categories", protect(http.HandlerFunc(h.CreateCategoryHandler)))
	mux.Handle("GET /api/categories/{id}", protect(http.HandlerFunc(h.GetCategoryHandler)))
	mux.Handle("PUT /api/categories/{id}", protect(http.HandlerFunc(h.UpdateCategoryHandler)))
	mux.Handle("DELETE /api/categories/{id}", protect(http.HandlerFunc(h.DeleteCategoryHandler)))
}

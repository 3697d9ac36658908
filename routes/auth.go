package routes

import (
	"clementus360/task-manager/handlers"
	"net/http"
)

// RegisterAuthRoutes registers signup, login and session routes
func RegisterAuthRoutes(mux *http.ServeMux, h *handlers.Handler, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/auth/signup", h.SignupHandler)
	mux.HandleFunc("POST /api/auth/login", h.LoginHandler)

	mux.Handle("GET /api/auth/validate-token", protect(http.HandlerFunc(h.ValidateTokenHandler)))
	mux.Handle("POST /api/auth/logout", protect(http.HandlerFunc(h.LogoutHandler)))
	mux.Handle("POST /api/auth/seed-categories", protect(http.HandlerFunc(h.SeedCategoriesHandler)))
}

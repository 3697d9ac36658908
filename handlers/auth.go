package handlers

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/middleware"
	"clementus360/task-manager/types"
	"encoding/json"
	"net/http"
	"strings"
)

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	creds.Name = sanitize(strings.TrimSpace(creds.Name))

	resp, err := h.Identity.SignUp(creds)
	if err != nil {
		config.Logger.Error("Signup error: ", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A missing category set is recoverable via /seed-categories, so it
	// never fails the signup.
	if resp.User.ID != "" {
		if _, err := h.Identity.SeedCategories(resp.User.ID); err != nil {
			config.Logger.Error("Failed to create default categories: ", err)
		} else {
			config.Logger.Infof("Created default categories for new user: %s", resp.User.ID)
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	resp, err := h.Identity.SignIn(creds.Email, creds.Password)
	if err != nil {
		config.Logger.Warn("Login error: ", err)
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ValidateTokenHandler runs behind AuthMiddleware, so reaching it means the
// token is valid.
func (h *Handler) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.SignOut(middleware.TokenFromContext(r.Context())); err != nil {
		config.Logger.Error("Logout error: ", err)
		writeError(w, "Error logging out", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Successfully logged out"})
}

func (h *Handler) SeedCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	seeded, err := store.SeedCategories()
	if err != nil {
		config.Logger.Error("Error seeding categories: ", err)
		writeErrorDetails(w, "Failed to create default categories", err.Error(), http.StatusInternalServerError)
		return
	}

	message := "User already has categories, none created"
	if seeded {
		message = "Default categories created successfully"
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Success: true, Message: message})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (types.Credentials, bool) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return creds, false
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		writeError(w, "Email and password are required", http.StatusBadRequest)
		return creds, false
	}
	return creds, true
}

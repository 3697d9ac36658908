package handlers

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/types"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, types.ErrorResponse{Error: message})
}

func writeErrorDetails(w http.ResponseWriter, message, details string, status int) {
	writeJSON(w, status, types.ErrorResponse{Error: message, Details: details})
}

// store opens the caller's store or writes a 401.
func (h *Handler) store(w http.ResponseWriter, r *http.Request) (Store, bool) {
	s, err := h.OpenStore(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client: ", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return s, true
}

// pathID reads and validates the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request, what string) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeErrorDetails(w, "Validation error", "Invalid "+what+" ID format", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// sanitize strips angle brackets from user supplied text.
func sanitize(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

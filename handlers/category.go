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

func (h *Handler) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	categories, err := store.ListCategories()
	if err != nil {
		config.Logger.Error("Failed to fetch categories: ", err)
		writeErrorDetails(w, "Database error fetching categories", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	category, err := store.GetCategory(id)
	if err != nil {
		writeCategoryError(w, err, "Failed to fetch category")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var category types.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	category.Name = sanitize(strings.TrimSpace(category.Name))
	category.Color = sanitize(category.Color)
	category.Icon = sanitize(category.Icon)
	if category.Name == "" {
		writeError(w, "Category name is required", http.StatusBadRequest)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	created, err := store.CreateCategory(category)
	if err != nil {
		config.Logger.Error("Failed to create category: ", err)
		writeErrorDetails(w, "Database error creating category", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	var update types.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if update.Empty() {
		writeError(w, "No fields to update", http.StatusBadRequest)
		return
	}
	if update.Name != nil {
		name := sanitize(strings.TrimSpace(*update.Name))
		if name == "" {
			writeError(w, "Category name cannot be empty", http.StatusBadRequest)
			return
		}
		update.Name = &name
	}
	for _, field := range []*string{update.Color, update.Icon} {
		if field != nil {
			*field = sanitize(*field)
		}
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	updated, err := store.UpdateCategory(id, update)
	if err != nil {
		writeCategoryError(w, err, "Failed to update category")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.DeleteCategory(id); err != nil {
		writeCategoryError(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeCategoryError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, supabase.ErrNotFound):
		writeError(w, "Category not found", http.StatusNotFound)
	case errors.Is(err, supabase.ErrCategoryInUse):
		writeError(w, types.CategoryInUseMessage, http.StatusBadRequest)
	default:
		config.Logger.Error(message+": ", err)
		writeErrorDetails(w, message, err.Error(), http.StatusInternalServerError)
	}
}

package client

import (
	"clementus360/task-manager/types"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// CategoryRepository is the category surface of the API.
type CategoryRepository struct {
	c *Client
}

func (r *CategoryRepository) List(ctx context.Context) ([]types.Category, error) {
	var categories []types.Category
	err := r.c.do(ctx, request{method: http.MethodGet, path: "/categories", context: "Failed to fetch categories"}, &categories)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []types.Category{}
	}
	return categories, nil
}

// ListWithShowAll is List with the "All" pseudo-category in front.
func (r *CategoryRepository) ListWithShowAll(ctx context.Context) ([]types.Category, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return append([]types.Category{types.ShowAllCategory}, categories...), nil
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (types.Category, error) {
	var category types.Category
	err := r.c.do(ctx, request{method: http.MethodGet, path: "/categories/" + url.PathEscape(id), context: "Failed to fetch category"}, &category)
	return category, err
}

func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return types.Category{}, &ValidationError{Field: "name", Message: "Category name is required"}
	}
	var created types.Category
	err := r.c.do(ctx, request{method: http.MethodPost, path: "/categories", body: category, context: "Failed to create category"}, &created)
	return created, err
}

func (r *CategoryRepository) Update(ctx context.Context, id string, u types.CategoryUpdate) (types.Category, error) {
	if u.Empty() {
		return types.Category{}, &ValidationError{Field: "update", Message: "No fields to update"}
	}
	var updated types.Category
	err := r.c.do(ctx, request{method: http.MethodPut, path: "/categories/" + url.PathEscape(id), body: u, context: "Failed to update category"}, &updated)
	return updated, err
}

// Delete removes a category. The server answers 400 with the in-use message
// while tasks still reference it; that comes back as a *ConflictError. Other
// 400s, such as a malformed id, stay a *StoreError.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	err := r.c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + url.PathEscape(id), context: "Failed to delete category"}, nil)

	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Status == http.StatusBadRequest && strings.HasPrefix(storeErr.Message, types.CategoryInUseMessage) {
		return &ConflictError{Message: types.CategoryInUseMessage}
	}
	return err
}

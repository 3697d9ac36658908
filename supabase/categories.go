package supabase

import (
	"clementus360/task-manager/config"
	"clementus360/task-manager/types"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const categoriesTable = "categories"

// ListCategories returns the owner's categories by name. A project that has
// not created the table yet gets the default set instead of an error.
func ListCategories(client *supabase.Client, userID string) ([]types.Category, error) {
	resp, _, err := client.From(categoriesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		if isUndefinedTable(err) {
			config.Logger.Warn("Categories table missing, returning default categories")
			return append([]types.Category(nil), config.DefaultCategories...), nil
		}
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := []types.Category{}
	if err := json.Unmarshal(resp, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func GetCategory(client *supabase.Client, userID, categoryID string) (types.Category, error) {
	resp, _, err := client.From(categoriesTable).
		Select("*", "", false).
		Eq("id", categoryID).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.Category{}, fmt.Errorf("failed to fetch category: %w", err)
	}
	return firstCategory(resp)
}

func InsertCategory(client *supabase.Client, userID string, category types.Category) (types.Category, error) {
	category.ID = ""
	category.UserID = userID
	if category.Color == "" {
		category.Color = config.DefaultCategoryColor
	}
	if category.Icon == "" {
		category.Icon = config.DefaultCategoryIcon
	}

	resp, _, err := client.From(categoriesTable).
		Insert(category, false, "", "representation", "").
		Execute()
	if err != nil {
		return types.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}

	created, err := firstCategory(resp)
	if err == ErrNotFound {
		return types.Category{}, fmt.Errorf("no data returned after category creation")
	}
	return created, err
}

func UpdateCategory(client *supabase.Client, userID, categoryID string, update types.CategoryUpdate) (types.Category, error) {
	resp, _, err := client.From(categoriesTable).
		Update(update, "representation", "").
		Eq("id", categoryID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return types.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return firstCategory(resp)
}

// DeleteCategory refuses to remove a category that tasks still reference.
func DeleteCategory(client *supabase.Client, userID, categoryID string) error {
	inUse, err := CategoryHasTasks(client, userID, categoryID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	resp, _, err := client.From(categoriesTable).
		Delete("representation", "").
		Eq("id", categoryID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	_, err = firstCategory(resp)
	return err
}

// SeedCategories inserts the default set for userID if the user has no
// categories yet. It reports whether anything was inserted.
func SeedCategories(client *supabase.Client, userID string) (bool, error) {
	resp, _, err := client.From(categoriesTable).
		Select("id", "", false).
		Eq("user_id", userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to check existing categories: %w", err)
	}

	var existing []types.Category
	if err := json.Unmarshal(resp, &existing); err != nil {
		return false, fmt.Errorf("failed to decode categories: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	rows := make([]types.Category, len(config.DefaultCategories))
	for i, c := range config.DefaultCategories {
		c.UserID = userID
		rows[i] = c
	}

	if _, _, err := client.From(categoriesTable).Insert(rows, false, "", "minimal", "").Execute(); err != nil {
		return false, fmt.Errorf("failed to seed categories: %w", err)
	}
	return true, nil
}

func firstCategory(resp []byte) (types.Category, error) {
	var categories []types.Category
	if err := json.Unmarshal(resp, &categories); err != nil {
		return types.Category{}, fmt.Errorf("failed to decode category data: %w", err)
	}
	if len(categories) == 0 {
		return types.Category{}, ErrNotFound
	}
	return categories[0], nil
}

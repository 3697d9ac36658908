package types

import "time"

type Category struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	Icon      string     `json:"icon"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// CategoryUpdate is a partial set of category fields.
type CategoryUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (u CategoryUpdate) Empty() bool {
	return u.Name == nil && u.Color == nil && u.Icon == nil
}

// CategoryInUseMessage is the API error for deleting a category that still
// has tasks.
const CategoryInUseMessage = "Cannot delete category that has tasks assigned to it"

// ShowAllID identifies the synthetic "show all" pseudo-category.
const ShowAllID = "all"

// ShowAllCategory is never stored; list views prepend it so "All" can be
// picked like any other category.
var ShowAllCategory = Category{ID: ShowAllID, Name: "All", Icon: "fa-th-large", Color: "#4a5568"}

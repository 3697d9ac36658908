package config

import "clementus360/task-manager/types"

// DefaultCategories is the set seeded for every new account.
var DefaultCategories = []types.Category{
	{Name: "Work", Color: "#0284c7", Icon: "fa-briefcase"},
	{Name: "Personal", Color: "#7e22ce", Icon: "fa-user"},
	{Name: "Shopping", Color: "#16a34a", Icon: "fa-shopping-cart"},
	{Name: "Health", Color: "#dc2626", Icon: "fa-heart"},
	{Name: "Education", Color: "#ea580c", Icon: "fa-book"},
}

// Category field defaults applied on create.
const (
	DefaultCategoryColor = "#2d2d2d"
	DefaultCategoryIcon  = "fa-folder"
)

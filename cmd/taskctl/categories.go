package main

import (
	"clementus360/task-manager/types"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			renderCategories(a.out, a.engine.Categories())
			return nil
		},
	}

	cmd.AddCommand(
		newCategoryAddCmd(a),
		newCategoryRenameCmd(a),
		newCategoryDeleteCmd(a),
	)
	return cmd
}

func newCategoryAddCmd(a *app) *cobra.Command {
	var category types.Category

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category.Name = strings.Join(args, " ")
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			created, ok := a.engine.AddCategory(cmd.Context(), category)
			if !ok {
				return a.failed("category not created")
			}
			fmt.Fprintf(a.out, "Added category %s %s\n", shortID(created.ID), created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&category.Color, "color", "", "hex color, e.g. #0284c7")
	cmd.Flags().StringVar(&category.Icon, "icon", "", "icon name, e.g. fa-briefcase")

	return cmd
}

func newCategoryRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <new name>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			c, err := a.findCategory(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if _, ok := a.engine.UpdateCategory(cmd.Context(), c.ID, types.CategoryUpdate{Name: &name}); !ok {
				return a.failed("category not renamed")
			}
			fmt.Fprintf(a.out, "Renamed %s to %s\n", c.Name, name)
			return nil
		},
	}
}

func newCategoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category no task uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.Context(), types.TaskFilter{}); err != nil {
				return err
			}
			c, err := a.findCategory(args[0])
			if err != nil {
				return err
			}
			if !a.engine.DeleteCategory(cmd.Context(), c.ID) {
				return a.failed("category not deleted")
			}
			fmt.Fprintf(a.out, "Deleted category %s\n", c.Name)
			return nil
		},
	}
}

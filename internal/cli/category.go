package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/render"
)

// NewCategoryCommand creates the category command group.
func NewCategoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(newCategoryListCommand(rootOpts))
	cmd.AddCommand(newCategoryAddCommand(rootOpts))
	cmd.AddCommand(newCategoryPreviewCommand(rootOpts))
	cmd.AddCommand(newCategoryRemoveCommand(rootOpts))
	return cmd
}

func newCategoryListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with their notification counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				cats, err := env.engine.Categories(ctx)
				if err != nil {
					return err
				}
				if cats == nil {
					cats = []model.CategoryCount{}
				}
				return env.out.Success(cats, func() string {
					if len(cats) == 0 {
						return "No categories. Run 'notify init' to seed the defaults."
					}
					return render.CategoryTable(cats)
				})
			})
		},
	}
}

func newCategoryAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				cat, err := env.engine.AddCategory(ctx, args[0])
				if err != nil {
					return err
				}
				return env.out.Success(cat, func() string {
					return fmt.Sprintf("Added category #%d %s.", cat.ID, cat.Name)
				})
			})
		},
	}
}

func newCategoryPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <id>",
		Short: "Show what removing a category would do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := env.engine.RemoveCategoryPreview(ctx, id)
				if err != nil {
					return err
				}
				return env.out.Success(p, func() string { return previewText(p.Category, p.Affected) })
			})
		},
	}
}

func newCategoryRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a category",
		Long: `Remove a category. Sorted notifications filed under it go back to the
unsorted list, and every list is renumbered afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.runWithEnv(cmd, func(ctx context.Context, env *appEnv) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				p, err := env.engine.RemoveCategoryPreview(ctx, id)
				if err != nil {
					return err
				}
				ok, err := confirm(
					fmt.Sprintf("Remove category %s?", p.Category.Name),
					previewText(p.Category, p.Affected),
					yes,
				)
				if err != nil {
					return err
				}
				if !ok {
					return env.out.Success(p, func() string { return "Aborted." })
				}

				res, err := env.engine.RemoveCategory(ctx, id)
				if err != nil {
					return err
				}
				return env.out.Success(res, func() string {
					return fmt.Sprintf("Removed category %s. %d notifications moved back to unsorted.",
						res.Category.Name, res.Reverted)
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func previewText(cat model.Category, affected int) string {
	if affected == 0 {
		return fmt.Sprintf("Category #%d %s has no sorted notifications.", cat.ID, cat.Name)
	}
	return fmt.Sprintf("%d sorted notifications in #%d %s will move back to unsorted.", affected, cat.ID, cat.Name)
}

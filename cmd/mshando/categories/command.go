package categories

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse and manage task categories",
	}

	cmd.AddCommand(
		listCmd(buildInfo),
		cmdutils.IDCommand("get <category-id>", "Show a category", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Category, error) {
				return svc.Categories.Get(ctx, id)
			}),
		saveCmd(buildInfo),
		cmdutils.IDCommand("activate <category-id>", "Activate a category", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Category, error) {
				return svc.Categories.Activate(ctx, id)
			}),
		cmdutils.IDCommand("deactivate <category-id>", "Deactivate a category", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Category, error) {
				return svc.Categories.Deactivate(ctx, id)
			}),
		cmdutils.IDCommand("delete <category-id>", "Delete a category", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (cmdutils.Done, error) {
				return cmdutils.Done{Message: fmt.Sprintf("category %d deleted", id)}, svc.Categories.Delete(ctx, id)
			}),
	)

	return cmd
}

func listCmd(buildInfo string) *cobra.Command {
	var (
		all  bool
		name string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active categories, all of them with --all, or search by --name",
		Args:  cobra.NoArgs,
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "include inactive categories")
	cmd.Flags().StringVar(&name, "name", "", "search by name")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if name != "" {
			params := marketplace.CategorySearchParams{
				Name: marketplace.Ptr(name),
				Page: marketplace.Ptr(paging.Page),
				Size: marketplace.Ptr(paging.Size),
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.CategoryPage, error) {
				return svc.Categories.Search(ctx, params)
			})
		}

		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) ([]marketplace.Category, error) {
			if all {
				return svc.Categories.All(ctx)
			}

			return svc.Categories.Active(ctx)
		})
	}

	return cmd
}

func saveCmd(buildInfo string) *cobra.Command {
	var (
		req    marketplace.CategoryRequest
		update int64
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create a category, or change one with --update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Category, error) {
				if update > 0 {
					return svc.Categories.Update(ctx, update, req)
				}

				return svc.Categories.Create(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Description, "description", "", "category description")
	cmd.Flags().StringVar(&req.IconName, "icon", "", "icon name")
	cmd.Flags().Int64Var(&update, "update", 0, "id of the category to change")

	return cmd
}

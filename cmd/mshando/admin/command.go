package admin

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
		Use:   "admin",
		Short: "Platform administration, requires the admin role",
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	users.AddCommand(
		usersListCmd(buildInfo),
		cmdutils.IDCommand("get <user-id>", "Show a user", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.User, error) {
				return svc.Admin.GetUser(ctx, id)
			}),
		cmdutils.IDCommand("activate <user-id>", "Activate a user", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.User, error) {
				return svc.Admin.ActivateUser(ctx, id)
			}),
		cmdutils.IDCommand("deactivate <user-id>", "Deactivate a user", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.User, error) {
				return svc.Admin.DeactivateUser(ctx, id)
			}),
		cmdutils.IDCommand("delete <user-id>", "Delete a user", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (cmdutils.Done, error) {
				return cmdutils.Done{Message: fmt.Sprintf("user %d deleted", id)}, svc.Admin.DeleteUser(ctx, id)
			}),
	)

	cmd.AddCommand(
		users,
		statsCmd(buildInfo),
		noArgs("health", "Show the platform health", buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.PlatformHealth, error) {
			return svc.Admin.PlatformHealth(ctx)
		}),
		activityCmd(buildInfo),
		configCmd(buildInfo),
	)

	return cmd
}

func noArgs[T any](use, short, buildInfo string, fn func(context.Context, *business.Services) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, fn)
		},
	}
}

func usersListCmd(buildInfo string) *cobra.Command {
	var username, email, role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, filtered when any filter is given",
		Args:  cobra.NoArgs,
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().StringVar(&username, "username", "", "filter by username")
	cmd.Flags().StringVar(&email, "email", "", "filter by email")
	cmd.Flags().StringVar(&role, "role", "", "filter by role")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Page[marketplace.User], error) {
			if username == "" && email == "" && role == "" {
				return svc.Admin.AllUsers(ctx, paging.Page, paging.Size)
			}

			params := marketplace.UserSearchParams{
				Page: marketplace.Ptr(paging.Page),
				Size: marketplace.Ptr(paging.Size),
			}
			if username != "" {
				params.Username = marketplace.Ptr(username)
			}
			if email != "" {
				params.Email = marketplace.Ptr(email)
			}
			if role != "" {
				params.Role = marketplace.Ptr(marketplace.Role(role))
			}

			return svc.Admin.SearchUsers(ctx, params)
		})
	}

	return cmd
}

func statsCmd(buildInfo string) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (any, error) {
				switch scope {
				case "platform":
					return svc.Admin.Stats(ctx)
				case "users":
					return svc.Admin.UserStatistics(ctx)
				case "bids":
					return svc.Admin.BidStatistics(ctx)
				case "payments":
					return svc.Admin.PaymentStatistics(ctx)
				case "fees":
					return svc.Admin.ServiceFees(ctx)
				default:
					return nil, fmt.Errorf("unknown statistics scope %q", scope)
				}
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "platform", "platform, users, bids, payments or fees")

	return cmd
}

func activityCmd(buildInfo string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the latest platform events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) ([]marketplace.Activity, error) {
				return svc.Admin.RecentActivity(ctx, limit)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of events")

	return cmd
}

func configCmd(buildInfo string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the system configuration, or patch it with --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.SystemConfig, error) {
					return svc.Admin.SystemConfig(ctx)
				})
			}

			var patch marketplace.SystemConfig
			if err := cmdutils.ReadInput(file, cmd.InOrStdin(), &patch); err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.SystemConfig, error) {
				if err := svc.Admin.UpdateSystemConfig(ctx, patch); err != nil {
					return marketplace.SystemConfig{}, err
				}

				return svc.Admin.SystemConfig(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "configuration patch, - for standard input")

	return cmd
}

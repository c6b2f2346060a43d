package bids

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bids",
		Short: "Place and manage bids",
	}

	cmd.AddCommand(
		listCmd(buildInfo),
		cmdutils.IDCommand("task <task-id>", "List the bids on a task", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) ([]marketplace.Bid, error) {
				return svc.Bids.TaskBids(ctx, id)
			}),
		placeCmd(buildInfo),
		cmdutils.IDCommand("accept <bid-id>", "Accept a bid on one of your tasks", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Bid, error) {
				return svc.Bids.Accept(ctx, id)
			}),
		cmdutils.IDCommand("reject <bid-id>", "Reject a bid on one of your tasks", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Bid, error) {
				return svc.Bids.Reject(ctx, id)
			}),
		cmdutils.IDCommand("withdraw <bid-id>", "Withdraw one of your bids", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Bid, error) {
				return svc.Bids.Withdraw(ctx, id)
			}),
		&cobra.Command{
			Use:   "stats",
			Short: "Show bidding statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.BidStatistics, error) {
					return svc.Bids.Statistics(ctx)
				})
			},
		},
	)

	return cmd
}

func listCmd(buildInfo string) *cobra.Command {
	var (
		received bool
		status   string
		taskID   int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bids, or with --received the bids on your tasks",
		Args:  cobra.NoArgs,
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().BoolVar(&received, "received", false, "list the bids received on your tasks")
	cmd.Flags().StringVar(&status, "status", "", "filter your bids by status")
	cmd.Flags().Int64Var(&taskID, "task", 0, "filter received bids by task id")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params := marketplace.BidSearchParams{
			Page: marketplace.Ptr(paging.Page),
			Size: marketplace.Ptr(paging.Size),
		}
		if status != "" {
			params.Status = marketplace.Ptr(marketplace.BidStatus(status))
		}
		if taskID > 0 {
			params.TaskID = marketplace.Ptr(taskID)
		}

		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Page[marketplace.Bid], error) {
			if received {
				return svc.Bids.MyTasksBids(ctx, params)
			}

			return svc.Bids.MyBids(ctx, params)
		})
	}

	return cmd
}

func placeCmd(buildInfo string) *cobra.Command {
	var (
		req    marketplace.BidRequest
		update int64
	)

	cmd := &cobra.Command{
		Use:   "place <task-id>",
		Short: "Bid on a task, or change an existing bid with --update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("task id", args[0])
			if err != nil {
				return err
			}
			req.TaskID = id

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Bid, error) {
				if update > 0 {
					return svc.Bids.Update(ctx, update, req)
				}

				return svc.Bids.Create(ctx, req)
			})
		},
	}
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "offered amount")
	cmd.Flags().StringVar(&req.Message, "message", "", "message to the customer")
	cmd.Flags().IntVar(&req.EstimatedCompletionHours, "hours", 0, "estimated completion time in hours")
	cmd.Flags().Int64Var(&update, "update", 0, "id of the bid to change")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

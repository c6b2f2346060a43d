package payments

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect and drive payments",
	}

	cmd.AddCommand(
		cmdutils.IDCommand("get <payment-id>", "Show a payment", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Payment, error) {
				return svc.Payments.Get(ctx, id)
			}),
		listCmd(buildInfo),
		cmdutils.IDCommand("task <task-id>", "List the payments of a task", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) ([]marketplace.Payment, error) {
				return svc.Payments.Task(ctx, id)
			}),
		createCmd(buildInfo),
		cmdutils.IDCommand("process <payment-id>", "Submit a pending payment", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Payment, error) {
				return svc.Payments.Process(ctx, id)
			}),
		cmdutils.IDCommand("complete <payment-id>", "Complete a processed payment", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Payment, error) {
				return svc.Payments.Complete(ctx, id)
			}),
		cmdutils.IDCommand("retry <payment-id>", "Retry a failed payment", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Payment, error) {
				return svc.Payments.Retry(ctx, id)
			}),
		cancelCmd(buildInfo),
		refundCmd(buildInfo),
		totalsCmd(buildInfo),
	)

	return cmd
}

func listCmd(buildInfo string) *cobra.Command {
	var (
		customer int64
		tasker   int64
		status   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments of a customer, of a tasker or by status",
		Args:  cobra.NoArgs,
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().Int64Var(&customer, "customer", 0, "customer id")
	cmd.Flags().Int64Var(&tasker, "tasker", 0, "tasker id")
	cmd.Flags().StringVar(&status, "status", "", "payment status")
	cmd.MarkFlagsOneRequired("customer", "tasker", "status")
	cmd.MarkFlagsMutuallyExclusive("customer", "tasker", "status")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Page[marketplace.Payment], error) {
			switch {
			case customer > 0:
				return svc.Payments.Customer(ctx, customer, paging.Page, paging.Size)
			case tasker > 0:
				return svc.Payments.Tasker(ctx, tasker, paging.Page, paging.Size)
			default:
				return svc.Payments.ByStatus(ctx, marketplace.PaymentStatus(status), paging.Page, paging.Size)
			}
		})
	}

	return cmd
}

func createCmd(buildInfo string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payment from a YAML or JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req marketplace.PaymentRequest
			if err := cmdutils.ReadInput(file, cmd.InOrStdin(), &req); err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Payment, error) {
				return svc.Payments.Create(ctx, req)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "payment document, - for standard input")

	return cmd
}

func cancelCmd(buildInfo string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <payment-id>",
		Short: "Cancel a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("payment id", args[0])
			if err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Payment, error) {
				return svc.Payments.Cancel(ctx, id, reason)
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func refundCmd(buildInfo string) *cobra.Command {
	var req marketplace.RefundRequest

	cmd := &cobra.Command{
		Use:   "refund <payment-id>",
		Short: "Refund a completed payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("payment id", args[0])
			if err != nil {
				return err
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Payment, error) {
				return svc.Payments.Refund(ctx, id, req)
			})
		},
	}
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "refunded amount")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "refund reason")
	cmd.Flags().StringVar(&req.Description, "description", "", "details")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

type totals struct {
	CustomerID    int64   `json:"customerId,omitempty"`
	TotalSpent    float64 `json:"totalSpent,omitempty"`
	HasPending    bool    `json:"hasPending,omitempty"`
	TaskerID      int64   `json:"taskerId,omitempty"`
	TotalEarnings float64 `json:"totalEarnings,omitempty"`
}

func totalsCmd(buildInfo string) *cobra.Command {
	var customer, tasker int64

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Sum the payments of a customer or the earnings of a tasker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (totals, error) {
				if tasker > 0 {
					earned, err := svc.Payments.TaskerEarnings(ctx, tasker)
					return totals{TaskerID: tasker, TotalEarnings: earned}, err
				}

				spent, err := svc.Payments.CustomerTotal(ctx, customer)
				if err != nil {
					return totals{}, err
				}
				pending, err := svc.Payments.CustomerHasPending(ctx, customer)

				return totals{CustomerID: customer, TotalSpent: spent, HasPending: pending}, err
			})
		},
	}
	cmd.Flags().Int64Var(&customer, "customer", 0, "customer id")
	cmd.Flags().Int64Var(&tasker, "tasker", 0, "tasker id")
	cmd.MarkFlagsOneRequired("customer", "tasker")
	cmd.MarkFlagsMutuallyExclusive("customer", "tasker")

	return cmd
}

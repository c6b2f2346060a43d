package notifications

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

type unread struct {
	RecipientID int64 `json:"recipientId"`
	Unread      int64 `json:"unread"`
}

func Cmd(buildInfo string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Read and send notifications",
	}

	cmd.AddCommand(
		listCmd(buildInfo),
		cmdutils.IDCommand("get <notification-id>", "Show a notification", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Notification, error) {
				return svc.Notifications.Get(ctx, id)
			}),
		cmdutils.IDCommand("read <notification-id>", "Mark a notification as read", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (marketplace.Notification, error) {
				return svc.Notifications.MarkAsRead(ctx, id)
			}),
		cmdutils.IDCommand("read-all <recipient-id>", "Mark every notification of a recipient as read", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (cmdutils.Done, error) {
				return cmdutils.Done{Message: "all notifications read"}, svc.Notifications.MarkAllAsRead(ctx, id)
			}),
		cmdutils.IDCommand("unread <recipient-id>", "Count the unread notifications of a recipient", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (unread, error) {
				n, err := svc.Notifications.UnreadCount(ctx, id)
				return unread{RecipientID: id, Unread: n}, err
			}),
		cmdutils.IDCommand("delete <notification-id>", "Delete a notification", buildInfo,
			func(ctx context.Context, svc *business.Services, id int64) (cmdutils.Done, error) {
				return cmdutils.Done{Message: fmt.Sprintf("notification %d deleted", id)}, svc.Notifications.Delete(ctx, id)
			}),
		emailCmd(buildInfo),
		smsCmd(buildInfo),
	)

	return cmd
}

func listCmd(buildInfo string) *cobra.Command {
	var status, typ string

	cmd := &cobra.Command{
		Use:   "list <recipient-id>",
		Short: "List the notifications of a recipient",
		Args:  cobra.ExactArgs(1),
	}
	paging := cmdutils.AddPagingFlags(cmd)
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&typ, "type", "", "filter by type, EMAIL or SMS")
	cmd.MarkFlagsMutuallyExclusive("status", "type")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := cmdutils.ParseID("recipient id", args[0])
		if err != nil {
			return err
		}

		return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Page[marketplace.Notification], error) {
			switch {
			case status != "":
				return svc.Notifications.ByStatus(ctx, id, marketplace.NotificationStatus(status), paging.Page, paging.Size)
			case typ != "":
				return svc.Notifications.ByType(ctx, id, marketplace.NotificationType(typ), paging.Page, paging.Size)
			default:
				return svc.Notifications.ByRecipient(ctx, id, paging.Page, paging.Size)
			}
		})
	}

	return cmd
}

func emailCmd(buildInfo string) *cobra.Command {
	var (
		req   marketplace.EmailRequest
		event string
		task  string
	)

	cmd := &cobra.Command{
		Use:   "email <recipient-id> <email>",
		Short: "Send an email, or a task event email with --event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("recipient id", args[0])
			if err != nil {
				return err
			}
			req.RecipientID, req.RecipientEmail = id, args[1]

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Notification, error) {
				if event != "" {
					return svc.Notifications.SendTaskNotification(ctx, marketplace.TaskNotification{
						RecipientID:    req.RecipientID,
						RecipientEmail: req.RecipientEmail,
						Event:          marketplace.TaskEvent(event),
						TaskTitle:      task,
					})
				}

				return svc.Notifications.SendEmail(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Subject, "subject", "", "email subject")
	cmd.Flags().StringVar(&req.Content, "content", "", "email body")
	cmd.Flags().StringVar(&event, "event", "", "task event, e.g. TASK_ASSIGNED")
	cmd.Flags().StringVar(&task, "task", "", "task title used by --event")
	cmd.MarkFlagsMutuallyExclusive("event", "subject")
	cmd.MarkFlagsRequiredTogether("event", "task")

	return cmd
}

func smsCmd(buildInfo string) *cobra.Command {
	var req marketplace.SMSRequest

	cmd := &cobra.Command{
		Use:   "sms <recipient-id> <phone>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmdutils.ParseID("recipient id", args[0])
			if err != nil {
				return err
			}
			req.RecipientID, req.RecipientPhone = id, args[1]

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.Notification, error) {
				return svc.Notifications.SendSMS(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Content, "content", "", "message text")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

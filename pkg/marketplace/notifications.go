package marketplace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Notifications talks to the notification service, which serves its
// endpoints from the root of its base URL.
type Notifications struct {
	client *apiclient.Client
}

func NewNotifications(notifications *apiclient.Client) *Notifications {
	return &Notifications{client: notifications}
}

func (n *Notifications) SendEmail(ctx context.Context, req EmailRequest) (Notification, error) {
	return apiclient.Send[Notification](ctx, n.client, http.MethodPost, "/email", nil, req)
}

func (n *Notifications) SendSMS(ctx context.Context, req SMSRequest) (Notification, error) {
	return apiclient.Send[Notification](ctx, n.client, http.MethodPost, "/sms", nil, req)
}

// SendTaskNotification emails the recipient about a task event.
func (n *Notifications) SendTaskNotification(ctx context.Context, tn TaskNotification) (Notification, error) {
	subject, content := TaskMessage(tn.Event, tn.TaskTitle)

	return n.SendEmail(ctx, EmailRequest{
		RecipientID:    tn.RecipientID,
		RecipientEmail: tn.RecipientEmail,
		Subject:        subject,
		Content:        content,
	})
}

// SendPaymentNotification emails the recipient about a payment event.
func (n *Notifications) SendPaymentNotification(ctx context.Context, pn PaymentNotification) (Notification, error) {
	subject, content := PaymentMessage(pn.Event, pn.Amount, pn.TaskTitle)

	return n.SendEmail(ctx, EmailRequest{
		RecipientID:    pn.RecipientID,
		RecipientEmail: pn.RecipientEmail,
		Subject:        subject,
		Content:        content,
	})
}

// TaskMessage renders the subject and body of a task event email.
func TaskMessage(event TaskEvent, title string) (string, string) {
	switch event {
	case TaskEventCreated:
		return "New Task Created", fmt.Sprintf("A new task \"%s\" has been created.", title)
	case TaskEventUpdated:
		return "Task Updated", fmt.Sprintf("The task \"%s\" has been updated.", title)
	case TaskEventAssigned:
		return "Task Assigned", fmt.Sprintf("You have been assigned to the task \"%s\".", title)
	case TaskEventCompleted:
		return "Task Completed", fmt.Sprintf("The task \"%s\" has been completed.", title)
	case TaskEventBidIn:
		return "New Bid Received", fmt.Sprintf("You received a new bid for the task \"%s\".", title)
	case TaskEventBidWon:
		return "Bid Accepted", fmt.Sprintf("Your bid for the task \"%s\" has been accepted.", title)
	default:
		return "Task Notification", fmt.Sprintf("There is an update for the task \"%s\".", title)
	}
}

// PaymentMessage renders the subject and body of a payment event email.
func PaymentMessage(event PaymentEvent, amount float64, title string) (string, string) {
	switch event {
	case PaymentEventProcessed:
		return "Payment Processed", fmt.Sprintf("Your payment of $%.2f for the task \"%s\" has been processed.", amount, title)
	case PaymentEventReceived:
		return "Payment Received", fmt.Sprintf("You have received a payment of $%.2f for the task \"%s\".", amount, title)
	case PaymentEventRefunded:
		return "Refund Processed", fmt.Sprintf("A refund of $%.2f for the task \"%s\" has been processed.", amount, title)
	default:
		return "Payment Notification", fmt.Sprintf("There is a payment update for the task \"%s\".", title)
	}
}

func (n *Notifications) ByRecipient(ctx context.Context, recipientID int64, page, size int) (Page[Notification], error) {
	return n.page(ctx, "/recipient/{recipientId}", page, size, p("recipientId", recipientID))
}

func (n *Notifications) ByStatus(ctx context.Context, recipientID int64, status NotificationStatus, page, size int) (Page[Notification], error) {
	return n.page(ctx, "/recipient/{recipientId}/status/{status}", page, size, p("recipientId", recipientID), p("status", status))
}

func (n *Notifications) ByType(ctx context.Context, recipientID int64, typ NotificationType, page, size int) (Page[Notification], error) {
	return n.page(ctx, "/recipient/{recipientId}/type/{type}", page, size, p("recipientId", recipientID), p("type", typ))
}

func (n *Notifications) page(ctx context.Context, tmpl string, page, size int, params ...param) (Page[Notification], error) {
	path, err := expand(tmpl, params...)
	if err != nil {
		return Page[Notification]{}, err
	}

	values, err := newQuery().page(page, size).build()
	if err != nil {
		return Page[Notification]{}, err
	}

	return apiclient.Get[Page[Notification]](ctx, n.client, path, values)
}

func (n *Notifications) Get(ctx context.Context, id int64) (Notification, error) {
	path, err := expand("/{id}", p("id", id))
	if err != nil {
		return Notification{}, err
	}

	return apiclient.Get[Notification](ctx, n.client, path, nil)
}

func (n *Notifications) MarkAsRead(ctx context.Context, id int64) (Notification, error) {
	path, err := expand("/{id}/read", p("id", id))
	if err != nil {
		return Notification{}, err
	}

	return apiclient.Send[Notification](ctx, n.client, http.MethodPatch, path, nil, nil)
}

func (n *Notifications) MarkAllAsRead(ctx context.Context, recipientID int64) error {
	path, err := expand("/recipient/{recipientId}/read-all", p("recipientId", recipientID))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, n.client, http.MethodPatch, path, nil, nil)
}

func (n *Notifications) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	path, err := expand("/recipient/{recipientId}/unread-count", p("recipientId", recipientID))
	if err != nil {
		return 0, err
	}

	return apiclient.Get[int64](ctx, n.client, path, nil)
}

func (n *Notifications) Delete(ctx context.Context, id int64) error {
	path, err := expand("/{id}", p("id", id))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, n.client, http.MethodDelete, path, nil, nil)
}

package marketplace

import (
	"context"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Payments talks to the payment service.
type Payments struct {
	client *apiclient.Client
}

func NewPayments(payments *apiclient.Client) *Payments {
	return &Payments{client: payments}
}

func (s *Payments) Create(ctx context.Context, req PaymentRequest) (Payment, error) {
	return apiclient.Send[Payment](ctx, s.client, http.MethodPost, "/payments", nil, req)
}

func (s *Payments) Get(ctx context.Context, id int64) (Payment, error) {
	path, err := expand("/payments/{id}", p("id", id))
	if err != nil {
		return Payment{}, err
	}

	return apiclient.Get[Payment](ctx, s.client, path, nil)
}

func (s *Payments) GetByExternalID(ctx context.Context, externalID string) (Payment, error) {
	path, err := expand("/payments/external/{externalId}", p("externalId", externalID))
	if err != nil {
		return Payment{}, err
	}

	return apiclient.Get[Payment](ctx, s.client, path, nil)
}

func (s *Payments) Process(ctx context.Context, id int64) (Payment, error) {
	return s.transition(ctx, id, "process", nil)
}

func (s *Payments) Complete(ctx context.Context, id int64) (Payment, error) {
	return s.transition(ctx, id, "complete", nil)
}

// Retry resubmits a failed payment.
func (s *Payments) Retry(ctx context.Context, id int64) (Payment, error) {
	return s.transition(ctx, id, "retry", nil)
}

func (s *Payments) Cancel(ctx context.Context, id int64, reason string) (Payment, error) {
	return s.transition(ctx, id, "cancel", newQuery().add("reason", reason))
}

func (s *Payments) transition(ctx context.Context, id int64, action string, q *query) (Payment, error) {
	path, err := expand("/payments/{id}/{action}", p("id", id), p("action", action))
	if err != nil {
		return Payment{}, err
	}

	if q == nil {
		q = newQuery()
	}
	values, err := q.build()
	if err != nil {
		return Payment{}, err
	}

	return apiclient.Send[Payment](ctx, s.client, http.MethodPatch, path, values, nil)
}

func (s *Payments) Refund(ctx context.Context, id int64, req RefundRequest) (Payment, error) {
	path, err := expand("/payments/{id}/refund", p("id", id))
	if err != nil {
		return Payment{}, err
	}

	return apiclient.Send[Payment](ctx, s.client, http.MethodPost, path, nil, req)
}

func (s *Payments) Customer(ctx context.Context, customerID int64, page, size int) (Page[Payment], error) {
	return s.page(ctx, "/payments/customer/{id}", customerID, page, size)
}

func (s *Payments) Tasker(ctx context.Context, taskerID int64, page, size int) (Page[Payment], error) {
	return s.page(ctx, "/payments/tasker/{id}", taskerID, page, size)
}

func (s *Payments) ByStatus(ctx context.Context, status PaymentStatus, page, size int) (Page[Payment], error) {
	return s.page(ctx, "/payments/status/{id}", status, page, size)
}

func (s *Payments) page(ctx context.Context, tmpl string, id any, page, size int) (Page[Payment], error) {
	path, err := expand(tmpl, p("id", id))
	if err != nil {
		return Page[Payment]{}, err
	}

	values, err := newQuery().page(page, size).build()
	if err != nil {
		return Page[Payment]{}, err
	}

	return apiclient.Get[Page[Payment]](ctx, s.client, path, values)
}

func (s *Payments) Task(ctx context.Context, taskID int64) ([]Payment, error) {
	path, err := expand("/payments/task/{taskId}", p("taskId", taskID))
	if err != nil {
		return nil, err
	}

	return apiclient.Get[[]Payment](ctx, s.client, path, nil)
}

func (s *Payments) ByStatusAndType(ctx context.Context, status PaymentStatus, typ PaymentType, page, size int) (Page[Payment], error) {
	values, err := newQuery().add("status", status).add("paymentType", typ).page(page, size).build()
	if err != nil {
		return Page[Payment]{}, err
	}

	return apiclient.Get[Page[Payment]](ctx, s.client, "/payments/filter", values)
}

func (s *Payments) InDateRange(ctx context.Context, start, end string, page, size int) (Page[Payment], error) {
	values, err := newQuery().add("startDate", start).add("endDate", end).page(page, size).build()
	if err != nil {
		return Page[Payment]{}, err
	}

	return apiclient.Get[Page[Payment]](ctx, s.client, "/payments/date-range", values)
}

func (s *Payments) CustomerTotal(ctx context.Context, customerID int64) (float64, error) {
	return scalar[float64](ctx, s.client, "/payments/customer/{id}/total", customerID)
}

func (s *Payments) TaskerEarnings(ctx context.Context, taskerID int64) (float64, error) {
	return scalar[float64](ctx, s.client, "/payments/tasker/{id}/earnings", taskerID)
}

func (s *Payments) CustomerHasPending(ctx context.Context, customerID int64) (bool, error) {
	return scalar[bool](ctx, s.client, "/payments/customer/{id}/has-pending", customerID)
}

func (s *Payments) BidHasPayments(ctx context.Context, bidID int64) (bool, error) {
	return scalar[bool](ctx, s.client, "/payments/bid/{id}/has-payments", bidID)
}

// ServiceFees sums the service fees collected between start and end.
func (s *Payments) ServiceFees(ctx context.Context, start, end string) (float64, error) {
	values, err := newQuery().add("startDate", start).add("endDate", end).build()
	if err != nil {
		return 0, err
	}

	return apiclient.Get[float64](ctx, s.client, "/payments/service-fees", values)
}

func (s *Payments) Search(ctx context.Context, params PaymentSearchParams) (Page[Payment], error) {
	q := newQuery()
	opt(q, "status", params.Status)
	opt(q, "paymentType", params.PaymentType)
	opt(q, "customerId", params.CustomerID)
	opt(q, "taskerId", params.TaskerID)
	opt(q, "startDate", params.StartDate)
	opt(q, "endDate", params.EndDate)
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)

	values, err := q.build()
	if err != nil {
		return Page[Payment]{}, err
	}

	return apiclient.Get[Page[Payment]](ctx, s.client, "/payments/search", values)
}

func scalar[T any](ctx context.Context, c *apiclient.Client, tmpl string, id int64) (T, error) {
	path, err := expand(tmpl, p("id", id))
	if err != nil {
		var zero T
		return zero, err
	}

	return apiclient.Get[T](ctx, c, path, nil)
}

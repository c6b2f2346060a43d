package marketplace

import (
	"context"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Bids talks to the bidding service.
type Bids struct {
	client *apiclient.Client
}

func NewBids(bidding *apiclient.Client) *Bids {
	return &Bids{client: bidding}
}

func (b *Bids) Create(ctx context.Context, req BidRequest) (Bid, error) {
	return apiclient.Send[Bid](ctx, b.client, http.MethodPost, "/bids", nil, req)
}

// MyBids lists the bids placed by the logged-in tasker.
func (b *Bids) MyBids(ctx context.Context, params BidSearchParams) (Page[Bid], error) {
	q := newQuery()
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)
	opt(q, "status", params.Status)

	values, err := q.build()
	if err != nil {
		return Page[Bid]{}, err
	}

	return apiclient.Get[Page[Bid]](ctx, b.client, "/bids/my-bids", values)
}

// MyTasksBids lists the bids received on the logged-in customer's tasks.
func (b *Bids) MyTasksBids(ctx context.Context, params BidSearchParams) (Page[Bid], error) {
	q := newQuery()
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)
	opt(q, "taskId", params.TaskID)

	values, err := q.build()
	if err != nil {
		return Page[Bid]{}, err
	}

	return apiclient.Get[Page[Bid]](ctx, b.client, "/bids/my-tasks-bids", values)
}

func (b *Bids) TaskBids(ctx context.Context, taskID int64) ([]Bid, error) {
	path, err := expand("/bids/task/{taskId}", p("taskId", taskID))
	if err != nil {
		return nil, err
	}

	return apiclient.Get[[]Bid](ctx, b.client, path, nil)
}

func (b *Bids) Update(ctx context.Context, id int64, req BidRequest) (Bid, error) {
	path, err := expand("/bids/{id}", p("id", id))
	if err != nil {
		return Bid{}, err
	}

	return apiclient.Send[Bid](ctx, b.client, http.MethodPut, path, nil, req)
}

func (b *Bids) Accept(ctx context.Context, id int64) (Bid, error) {
	return b.transition(ctx, id, "accept")
}

func (b *Bids) Reject(ctx context.Context, id int64) (Bid, error) {
	return b.transition(ctx, id, "reject")
}

func (b *Bids) Withdraw(ctx context.Context, id int64) (Bid, error) {
	return b.transition(ctx, id, "withdraw")
}

func (b *Bids) transition(ctx context.Context, id int64, action string) (Bid, error) {
	path, err := expand("/bids/{id}/{action}", p("id", id), p("action", action))
	if err != nil {
		return Bid{}, err
	}

	return apiclient.Send[Bid](ctx, b.client, http.MethodPatch, path, nil, nil)
}

func (b *Bids) Statistics(ctx context.Context) (BidStatistics, error) {
	return apiclient.Get[BidStatistics](ctx, b.client, "/bids/statistics", nil)
}

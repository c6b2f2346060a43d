package marketplace

import (
	"context"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Categories talks to the category endpoints of the task service. Everything
// but Active and Get requires the admin role.
type Categories struct {
	client *apiclient.Client
}

func NewCategories(tasks *apiclient.Client) *Categories {
	return &Categories{client: tasks}
}

func (c *Categories) All(ctx context.Context) ([]Category, error) {
	return apiclient.Get[[]Category](ctx, c.client, "/categories", nil)
}

func (c *Categories) Active(ctx context.Context) ([]Category, error) {
	return apiclient.Get[[]Category](ctx, c.client, "/categories/active", nil)
}

func (c *Categories) Get(ctx context.Context, id int64) (Category, error) {
	path, err := expand("/categories/{id}", p("id", id))
	if err != nil {
		return Category{}, err
	}

	return apiclient.Get[Category](ctx, c.client, path, nil)
}

func (c *Categories) Create(ctx context.Context, req CategoryRequest) (Category, error) {
	return apiclient.Send[Category](ctx, c.client, http.MethodPost, "/categories", nil, req)
}

func (c *Categories) Update(ctx context.Context, id int64, req CategoryRequest) (Category, error) {
	path, err := expand("/categories/{id}", p("id", id))
	if err != nil {
		return Category{}, err
	}

	return apiclient.Send[Category](ctx, c.client, http.MethodPut, path, nil, req)
}

func (c *Categories) Activate(ctx context.Context, id int64) (Category, error) {
	return c.transition(ctx, id, "activate")
}

func (c *Categories) Deactivate(ctx context.Context, id int64) (Category, error) {
	return c.transition(ctx, id, "deactivate")
}

func (c *Categories) transition(ctx context.Context, id int64, action string) (Category, error) {
	path, err := expand("/categories/{id}/{action}", p("id", id), p("action", action))
	if err != nil {
		return Category{}, err
	}

	return apiclient.Send[Category](ctx, c.client, http.MethodPatch, path, nil, nil)
}

func (c *Categories) Delete(ctx context.Context, id int64) error {
	path, err := expand("/categories/{id}", p("id", id))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, c.client, http.MethodDelete, path, nil, nil)
}

func (c *Categories) Search(ctx context.Context, params CategorySearchParams) (CategoryPage, error) {
	q := newQuery()
	opt(q, "name", params.Name)
	opt(q, "active", params.Active)
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)

	values, err := q.build()
	if err != nil {
		return CategoryPage{}, err
	}

	return apiclient.Get[CategoryPage](ctx, c.client, "/categories/search", values)
}

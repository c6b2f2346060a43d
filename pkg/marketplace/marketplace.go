// Package marketplace holds the typed request functions of the marketplace
// backend: users and authentication, tasks, categories, bids, payments,
// notifications and administration. Each service wraps an apiclient.Client
// pointed at the base URL of the backend that serves it.
package marketplace

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

const (
	DefaultPage = 0
	DefaultSize = 20
)

// Page is the paginated list envelope.
type Page[T any] struct {
	Content          []T   `json:"content" yaml:"content"`
	Page             int   `json:"page" yaml:"page"`
	Size             int   `json:"size" yaml:"size"`
	TotalElements    int64 `json:"totalElements" yaml:"totalElements"`
	TotalPages       int   `json:"totalPages" yaml:"totalPages"`
	First            bool  `json:"first" yaml:"first"`
	Last             bool  `json:"last" yaml:"last"`
	NumberOfElements int   `json:"numberOfElements" yaml:"numberOfElements"`
}

// Ptr returns a pointer to v, for the optional fields of search parameters.
func Ptr[T any](v T) *T {
	return &v
}

type param struct {
	name  string
	value any
}

func p(name string, value any) param {
	return param{name: name, value: value}
}

// expand substitutes {name} placeholders in tmpl with the path-encoded values.
func expand(tmpl string, params ...param) (string, error) {
	out := tmpl
	for _, prm := range params {
		v, err := runtime.StyleParamWithLocation("simple", false, prm.name, runtime.ParamLocationPath, prm.value)
		if err != nil {
			return "", fmt.Errorf("invalid format for parameter %s: %w", prm.name, err)
		}

		placeholder := "{" + prm.name + "}"
		if !strings.Contains(out, placeholder) {
			return "", fmt.Errorf("path %s has no parameter %s", tmpl, prm.name)
		}
		out = strings.ReplaceAll(out, placeholder, v)
	}

	return out, nil
}

// query accumulates form-encoded query parameters, skipping nil optionals.
type query struct {
	values url.Values
	err    error
}

func newQuery() *query {
	return &query{values: url.Values{}}
}

func (q *query) add(name string, value any) *query {
	if q.err != nil {
		return q
	}

	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		q.err = fmt.Errorf("invalid format for parameter %s: %w", name, err)
		return q
	}

	parsed, err := url.ParseQuery(frag)
	if err != nil {
		q.err = fmt.Errorf("error parsing parameter %s: %w", name, err)
		return q
	}

	for k, vs := range parsed {
		for _, v := range vs {
			q.values.Add(k, v)
		}
	}

	return q
}

func (q *query) page(page, size int) *query {
	return q.add("page", page).add("size", size)
}

func (q *query) build() (url.Values, error) {
	return q.values, q.err
}

func opt[T any](q *query, name string, v *T) *query {
	if v == nil {
		return q
	}

	return q.add(name, *v)
}

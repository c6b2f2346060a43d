// Package apiclient is an HTTP client for the marketplace backend services.
// It authenticates requests with the stored access token, refreshes that
// token once when the backend answers 401 and replays the original request,
// and classifies every other failure into a serviceerr.Code.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/token"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "mshando-client"

	HeaderRequestID = "X-Request-Id"

	contentTypeJSON = "application/json"
)

type Option func(*Client)

// WithHTTPClient sets the client whose transport requests are sent over.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.base = c }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// WithRefresher shares a refresher between the clients of one session.
// Without it the client refreshes against its own base URL.
func WithRefresher(r *Refresher) Option {
	return func(cl *Client) { cl.refresher = r }
}

// WithLeeway treats access tokens as expired this long before their exp claim.
func WithLeeway(d time.Duration) Option {
	return func(cl *Client) { cl.leeway = d }
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

func WithMeterProvider(p metric.MeterProvider) Option {
	return func(cl *Client) { cl.meterProvider = p }
}

func WithTracerProvider(p trace.TracerProvider) Option {
	return func(cl *Client) { cl.tracerProvider = p }
}

// Client sends requests to one backend service. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	store     tokenstore.Store
	refresher *Refresher

	base           *http.Client
	timeout        time.Duration
	leeway         time.Duration
	userAgent      string
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider

	metrics *instruments
	tracer  trace.Tracer
}

func New(baseURL string, store tokenstore.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}

	c := &Client{
		baseURL:   u,
		store:     store,
		base:      &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.meterProvider == nil {
		c.meterProvider = otel.GetMeterProvider()
	}
	if c.tracerProvider == nil {
		c.tracerProvider = otel.GetTracerProvider()
	}

	c.metrics, err = newInstruments(c.meterProvider)
	if err != nil {
		return nil, err
	}
	c.tracer = c.tracerProvider.Tracer(instrumentationName)

	next := c.base.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	if c.refresher == nil {
		c.refresher = NewRefresher(
			c.baseURL.String()+RefreshPath,
			store,
			WithRefreshClient(&http.Client{Transport: next, Timeout: c.timeout}),
		)
	}

	c.http = &http.Client{
		Transport: &authTransport{
			next:      next,
			store:     store,
			refresher: c.refresher,
			leeway:    c.leeway,
		},
		Timeout:       c.timeout,
		CheckRedirect: c.base.CheckRedirect,
		Jar:           c.base.Jar,
	}

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Store() tokenstore.Store {
	return c.store
}

func (c *Client) Refresher() *Refresher {
	return c.refresher
}

// Refresh runs one refresh cycle on demand.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	return c.refresher.Refresh(ctx)
}

// Authenticated reports whether an unexpired access token is stored.
func (c *Client) Authenticated(ctx context.Context) bool {
	creds, err := c.store.Load(ctx)
	if err != nil {
		return false
	}

	return creds.AccessToken != "" && !token.Expired(creds.AccessToken, time.Now(), c.leeway)
}

// Request describes one backend call. Body is JSON-encoded unless RawBody is
// set, in which case RawBody is sent verbatim with ContentType.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	RawBody     []byte
	ContentType string
	Header      http.Header
}

// Response is a successful backend response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Retried    bool
}

// Decode unmarshals the JSON payload into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if v == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Do sends the request. Non-2xx responses return a *serviceerr.Error along
// with the response; transport failures return a network_error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	req, requestID, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	ctx = slogctx.With(ctx, "request_id", requestID, "method", req.Method, "path", req.URL.Path)
	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	req = req.WithContext(ctx)

	start := time.Now()

	httpResp, err := c.http.Do(req)
	if err != nil {
		failure := classifyTransportError(err)
		c.metrics.record(ctx, req.Method, 0, string(failure.Err), false, time.Since(start))
		span.RecordError(failure)
		span.SetStatus(codes.Error, string(failure.Err))
		slogctx.Warn(ctx, "Backend request failed", "kind", failure.Err, "error", failure.Description)

		return nil, failure
	}
	defer httpResp.Body.Close()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		RequestID:  requestID,
		Retried:    httpResp.Request != nil && Retried(httpResp.Request.Context()),
	}

	resp.Body, err = io.ReadAll(httpResp.Body)
	if err != nil {
		failure := serviceerr.Network(err)
		c.metrics.record(ctx, req.Method, resp.StatusCode, string(failure.Err), resp.Retried, time.Since(start))
		span.SetStatus(codes.Error, string(failure.Err))

		return nil, failure
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		failure := serviceerr.FromStatus(resp.StatusCode, errorMessage(resp.Body))
		c.metrics.record(ctx, req.Method, resp.StatusCode, string(failure.Err), resp.Retried, time.Since(start))
		span.SetStatus(codes.Error, string(failure.Err))
		slogctx.Warn(ctx, "Backend request failed",
			"status", resp.StatusCode,
			"kind", failure.Err,
			"message", failure.Description,
		)

		return resp, failure
	}

	c.metrics.record(ctx, req.Method, resp.StatusCode, "", resp.Retried, time.Since(start))
	slogctx.Debug(ctx, "Backend request completed",
		"status", resp.StatusCode,
		"retried", resp.Retried,
		"duration", time.Since(start),
	)

	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, string, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return nil, "", err
	}

	var body io.Reader
	contentType := r.ContentType
	switch {
	case r.RawBody != nil:
		body = bytes.NewReader(r.RawBody)
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = contentTypeJSON
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", contentTypeJSON)
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestID := req.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(HeaderRequestID, requestID)
	}

	return req, requestID, nil
}

// resolve joins a service-relative path, which may carry its own query, onto
// the base URL.
func (c *Client) resolve(path string, query url.Values) (*url.URL, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(rel.Path, "/")
	if rel.RawPath != "" {
		u.RawPath = strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimPrefix(rel.RawPath, "/")
	}

	q := rel.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return &u, nil
}

func classifyTransportError(err error) *serviceerr.Error {
	var svcErr *serviceerr.Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	return serviceerr.Network(err)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// errorMessage extracts the server-provided message from an error body:
// the message field, then the error field.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if payload.Message != "" {
		return payload.Message
	}

	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return s
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}

	return ""
}

// Call sends the request and decodes the payload into a T.
func Call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T

	resp, err := c.Do(ctx, r)
	if err != nil {
		return out, err
	}

	if err := resp.Decode(&out); err != nil {
		return out, err
	}

	return out, nil
}

func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return Call[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

func Send[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	return Call[T](ctx, c, Request{Method: method, Path: path, Query: query, Body: body})
}

// Exec sends a request whose payload is not needed.
func Exec(ctx context.Context, c *Client, method, path string, query url.Values, body any) error {
	_, err := c.Do(ctx, Request{Method: method, Path: path, Query: query, Body: body})
	return err
}

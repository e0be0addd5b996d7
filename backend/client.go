// Package backend is the HTTP client for the OrbitHall backend API. Every call except the
// Google verification carries the bearer token of the session found in the request context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/orbithall-admin/casing"
	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
	"github.com/jrsteele09/orbithall-admin/sessions"
)

// Fetcher is the subset of Client used by the resource actions.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error)
	FetchJSON(ctx context.Context, endpoint string, opts ...RequestOption) (any, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the backend at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type requestOptions struct {
	method  string
	body    io.Reader
	headers http.Header
	err     error
}

// RequestOption customises a single backend request.
type RequestOption func(*requestOptions)

// WithMethod sets the HTTP method. The default is GET.
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) {
		o.method = method
	}
}

// WithBody sends body as is.
func WithBody(body []byte) RequestOption {
	return func(o *requestOptions) {
		o.body = bytes.NewReader(body)
	}
}

// WithJSON converts v to a tree, snakifies its keys and sends it as the request body.
func WithJSON(v any) RequestOption {
	return func(o *requestOptions) {
		tree, err := casing.ToTree(v)
		if err != nil {
			o.err = err
			return
		}
		data, err := json.Marshal(casing.Snakify(tree))
		if err != nil {
			o.err = err
			return
		}
		o.body = bytes.NewReader(data)
	}
}

// WithHeader adds a request header. Content-Type and Authorization are always set by
// the client and cannot be replaced.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

// Fetch calls endpoint on behalf of the session in ctx. It fails with
// ErrBackendAuthRequired before any network I/O when the session has no backend token.
func (c *Client) Fetch(ctx context.Context, endpoint string, opts ...RequestOption) (*Response, error) {
	session := sessions.FromContext(ctx)
	if !session.HasBackendToken() {
		return nil, apperrors.ErrBackendAuthRequired
	}
	return c.do(ctx, endpoint, session.BackendToken, opts...)
}

// FetchJSON is Fetch for JSON endpoints. A non-2xx status yields an *APIError, otherwise
// the decoded body is returned as a tree with the keys the backend sent.
func (c *Client) FetchJSON(ctx context.Context, endpoint string, opts ...RequestOption) (any, error) {
	resp, err := c.Fetch(ctx, endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *Response) (any, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	return casing.Decode(resp.Body)
}

// Err returns an *APIError for a non-2xx response and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &apperrors.APIError{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Body:       string(r.Body),
	}
}

func (c *Client) do(ctx context.Context, endpoint, bearer string, opts ...RequestOption) (*Response, error) {
	o := &requestOptions{
		method:  http.MethodGet,
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, apperrors.Wrapf(o.err, "[backend %s] encode request", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, o.method, c.baseURL+endpoint, o.body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[backend %s] new request", endpoint)
	}
	for key, values := range o.headers {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Del("Authorization")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrTransport, "[backend %s %s] %v", o.method, endpoint, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrTransport, "[backend %s %s] read body: %v", o.method, endpoint, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       body,
	}
	logResponse(o.method, endpoint, resp)
	return resp, nil
}

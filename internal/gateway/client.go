// Package gateway is the typed client of the upstream storefront REST API.
//
// Calls are never retried. A bearer token is attached only when one was put
// on the context with WithToken. Non-2xx responses become *APIError carrying
// the body's detail message, or the per-call fallback message.
package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	baseURL string
	hc      *http.Client
}

// New builds a client for baseURL. A zero timeout means requests are only
// bounded by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type tokenKey struct{}

// WithToken returns a context whose gateway calls authenticate with token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// APIError is a non-2xx upstream response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.Status == http.StatusNotFound
}

func newAPIError(status int, body, fallback string) *APIError {
	detail := fallback
	var payload struct {
		Detail interface{} `json:"detail"`
	}
	if json.UnmarshalFromString(body, &payload) == nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			detail = s
		}
	}
	return &APIError{Status: status, Detail: detail}
}

// flow starts a fresh request chain sharing the transport of c.
func (c *Client) flow() *dataflow.Gout {
	return gout.New(c.hc)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func headers(ctx context.Context) gout.H {
	h := gout.H{"Accept": "application/json"}
	if tok := TokenFrom(ctx); tok != "" {
		h["Authorization"] = "Bearer " + tok
	}
	return h
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}, fallback string) error {
	var (
		body string
		code int
	)
	err := c.flow().GET(c.url(path, query)).
		WithContext(ctx).
		SetHeader(headers(ctx)).
		BindBody(&body).
		Code(&code).
		Do()
	return finish(path, err, code, body, out, fallback)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}, fallback string) error {
	var (
		body string
		code int
	)
	err := c.flow().POST(c.url(path, nil)).
		WithContext(ctx).
		SetHeader(headers(ctx)).
		SetJSON(payload).
		BindBody(&body).
		Code(&code).
		Do()
	return finish(path, err, code, body, out, fallback)
}

func (c *Client) put(ctx context.Context, path string, payload, out interface{}, fallback string) error {
	var (
		body string
		code int
	)
	err := c.flow().PUT(c.url(path, nil)).
		WithContext(ctx).
		SetHeader(headers(ctx)).
		SetJSON(payload).
		BindBody(&body).
		Code(&code).
		Do()
	return finish(path, err, code, body, out, fallback)
}

func (c *Client) delete(ctx context.Context, path string, fallback string) error {
	var (
		body string
		code int
	)
	err := c.flow().DELETE(c.url(path, nil)).
		WithContext(ctx).
		SetHeader(headers(ctx)).
		BindBody(&body).
		Code(&code).
		Do()
	return finish(path, err, code, body, nil, fallback)
}

func finish(path string, err error, code int, body string, out interface{}, fallback string) error {
	if err != nil {
		return errors.Wrapf(err, "upstream %s", path)
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return newAPIError(code, body, fallback)
	}
	if out == nil || strings.TrimSpace(body) == "" {
		return nil
	}
	return errors.Wrapf(json.UnmarshalFromString(body, out), "decode %s", path)
}

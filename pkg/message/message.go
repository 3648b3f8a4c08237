// Package message provides immutable, value-based HTTP request and response
// types and the handler signature that consumes them.
package message

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
)

// ErrRelativeURL is returned when a request is built from a URL without a
// scheme or host.
var ErrRelativeURL = errors.New("request URL must be absolute")

// Handler turns a request into a response. A Handler is called once per
// request and must not retain either value after it returns.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc is an adapter to allow ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Request is an immutable HTTP request with an absolute URL.
type Request struct {
	method string
	url    *url.URL
	header Header
	body   []byte
}

// NewRequest creates a Request. The URL must be absolute. The header and body
// are copied, so later changes by the caller are not observed.
func NewRequest(method, rawURL string, header Header, body []byte) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse request URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrRelativeURL, rawURL)
	}

	req := &Request{
		method: method,
		url:    u,
		header: header.Clone(),
	}
	if body != nil {
		req.body = slices.Clone(body)
	}
	return req, nil
}

// Method returns the request method.
func (r *Request) Method() string { return r.method }

// URL returns a copy of the absolute request URL.
func (r *Request) URL() *url.URL {
	u := *r.url
	if r.url.User != nil {
		user := *r.url.User
		u.User = &user
	}
	return &u
}

// Header returns a copy of the request headers.
func (r *Request) Header() Header { return r.header.Clone() }

// HasBody reports whether a body was attached.
func (r *Request) HasBody() bool { return r.body != nil }

// Body returns a copy of the request body, or nil when none was attached.
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	return slices.Clone(r.body)
}

// Response is an immutable HTTP response.
type Response struct {
	status int
	header Header
	body   []byte
}

// NewResponse creates a Response. The header and body are copied.
func NewResponse(status int, header Header, body []byte) *Response {
	return &Response{
		status: status,
		header: header.Clone(),
		body:   slices.Clone(body),
	}
}

// StatusCode returns the response status code.
func (r *Response) StatusCode() int { return r.status }

// Header returns a copy of the response headers.
func (r *Response) Header() Header { return r.header.Clone() }

// Bytes materializes the full response body.
func (r *Response) Bytes() ([]byte, error) {
	return slices.Clone(r.body), nil
}

func sortedKeys(m map[string][]string) []string {
	return slices.Sorted(maps.Keys(m))
}

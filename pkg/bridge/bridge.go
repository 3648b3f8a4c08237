// Package bridge adapts callback-style HTTP exchanges (an inbound request
// plus a write-only sink) to a message.Handler that consumes an immutable
// request value and returns an immutable response value.
//
// A Bridge holds no per-request state and is safe for concurrent use. It
// never logs, retries or writes a fallback response: every failure is
// returned to the caller as an *Error.
package bridge

import (
	"context"
	"net/http"

	"serverless-bridge/pkg/message"
)

const (
	// DefaultScheme is used when no forwarding-protocol header is present.
	DefaultScheme = "https"
	// DefaultHost is used when no Host header is present.
	DefaultHost = "localhost"
	// ForwardedProtoHeader carries the client-facing scheme set by proxies.
	ForwardedProtoHeader = "X-Forwarded-Proto"
)

// Bridge connects an inbound transport to a message handler.
type Bridge struct {
	handler       message.Handler
	defaultScheme string
	defaultHost   string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithDefaultScheme overrides the scheme used when the inbound request has
// no forwarding-protocol header.
func WithDefaultScheme(scheme string) Option {
	return func(b *Bridge) {
		if scheme != "" {
			b.defaultScheme = scheme
		}
	}
}

// WithDefaultHost overrides the host used when the inbound request has no
// Host header.
func WithDefaultHost(host string) Option {
	return func(b *Bridge) {
		if host != "" {
			b.defaultHost = host
		}
	}
}

// New creates a Bridge that dispatches to h. h must not be nil.
func New(h message.Handler, opts ...Option) *Bridge {
	if h == nil {
		panic("bridge: nil handler")
	}
	b := &Bridge{
		handler:       h,
		defaultScheme: DefaultScheme,
		defaultHost:   DefaultHost,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Serve runs one exchange: it builds a request value from in, calls the
// handler once and projects the response onto sink. A nil in is reported as
// a construction error. On error the sink may
// be untouched (construct, handle) or partially written (project); Serve
// never writes a response of its own.
func (b *Bridge) Serve(ctx context.Context, in *InboundRequest, sink Sink) error {
	req, err := b.BuildRequest(in)
	if err != nil {
		return err
	}

	resp, err := b.handler.Handle(ctx, req)
	if err != nil {
		return newError(OpHandle, in, err)
	}
	if resp == nil {
		return newError(OpHandle, in, ErrNilResponse)
	}

	if err := Project(resp, sink); err != nil {
		return newError(OpProject, in, err)
	}
	return nil
}

// ServeHTTPRequest serves a net/http exchange through the bridge. Errors are
// returned rather than answered so that the hosting transport decides what
// the client sees; the returned sink tells it whether a response went out.
func (b *Bridge) ServeHTTPRequest(w http.ResponseWriter, r *http.Request) (*HTTPSink, error) {
	sink := NewHTTPSink(w)
	return sink, b.Serve(r.Context(), InboundFromHTTP(r), sink)
}

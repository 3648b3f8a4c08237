package message

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPRequest converts r into a server-side *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if r.body != nil {
		body = bytes.NewReader(r.Body())
	}

	hr, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build http request: %w", err)
	}

	r.header.Each(func(name, value string) {
		hr.Header.Add(name, value)
	})
	hr.Host = r.url.Host
	if hr.Header.Get("Host") != "" {
		hr.Host = hr.Header.Get("Host")
		hr.Header.Del("Host")
	}
	hr.RequestURI = r.url.RequestURI()
	hr.ContentLength = int64(len(r.body))
	return hr, nil
}

// FromHTTPHandler exposes an http.Handler, such as a router, as a Handler.
// The handler's output is buffered in full and returned as one Response.
func FromHTTPHandler(h http.Handler) Handler {
	return HandlerFunc(func(ctx context.Context, req *Request) (*Response, error) {
		hr, err := req.HTTPRequest(ctx)
		if err != nil {
			return nil, err
		}

		rec := newRecorder()
		h.ServeHTTP(rec, hr)
		return rec.response(), nil
	})
}

// recorder buffers everything an http.Handler writes. Like net/http, the
// header is frozen when the status is written; later changes are dropped.
type recorder struct {
	header      http.Header
	snapshot    http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (w *recorder) Header() http.Header { return w.header }

func (w *recorder) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	// Informational responses are not part of the final response.
	if code >= 100 && code < 200 {
		return
	}
	w.status = code
	w.snapshot = w.header.Clone()
	w.wroteHeader = true
}

func (w *recorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

// Flush is a no-op; the body is only released once the handler returns.
func (w *recorder) Flush() {}

func (w *recorder) response() *Response {
	if !w.wroteHeader {
		return NewResponse(http.StatusOK, NewHeader(w.header), w.body.Bytes())
	}
	return NewResponse(w.status, NewHeader(w.snapshot), w.body.Bytes())
}

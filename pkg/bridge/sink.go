package bridge

import (
	"net/http"
	"sync"
)

// Sink is the write-only output side of a callback-style exchange. A sink is
// finalized exactly once, and only after a status has been set.
type Sink interface {
	SetStatus(code int) error
	AddHeader(name, value string) error
	Finalize(body []byte) error
}

// HTTPSink writes to an http.ResponseWriter.
type HTTPSink struct {
	w         http.ResponseWriter
	mu        sync.Mutex
	status    int
	finalized bool
}

// NewHTTPSink wraps w.
func NewHTTPSink(w http.ResponseWriter) *HTTPSink {
	return &HTTPSink{w: w}
}

// SetStatus records the status code. It is sent with Finalize because
// net/http freezes headers once the status line is written.
func (s *HTTPSink) SetStatus(code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}
	s.status = code
	return nil
}

// AddHeader appends a header value.
func (s *HTTPSink) AddHeader(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}
	s.w.Header().Add(name, value)
	return nil
}

// Finalize writes the status line and the body.
func (s *HTTPSink) Finalize(body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrSinkFinalized
	}
	if s.status == 0 {
		return ErrStatusNotSet
	}
	s.finalized = true

	s.w.WriteHeader(s.status)
	if len(body) == 0 {
		return nil
	}
	_, err := s.w.Write(body)
	return err
}

// Finalized reports whether Finalize has been called successfully.
func (s *HTTPSink) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

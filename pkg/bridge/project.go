package bridge

import (
	"fmt"
	"net/http"

	"serverless-bridge/pkg/message"
)

// Project writes resp onto sink: the status first, then every header value
// in order, then the fully materialized body in a single Finalize call.
// The status must be a final one (200-999); informational codes cannot end
// an exchange. Nothing reaches the sink when validation fails.
func Project(resp *message.Response, sink Sink) error {
	status := resp.StatusCode()
	if status < 200 || status > 999 {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}

	body, err := resp.Bytes()
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if len(body) > 0 && !bodyAllowed(status) {
		return fmt.Errorf("%w: %d", ErrBodyNotAllowed, status)
	}

	if err := sink.SetStatus(status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	var headerErr error
	resp.Header().Each(func(name, value string) {
		if headerErr != nil {
			return
		}
		if err := sink.AddHeader(name, value); err != nil {
			headerErr = fmt.Errorf("add header %q: %w", name, err)
		}
	})
	if headerErr != nil {
		return headerErr
	}

	if err := sink.Finalize(body); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	return nil
}

func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified
}

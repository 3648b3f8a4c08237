package lambda

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"

	"serverless-bridge/pkg/bridge"
)

// GatewaySink collects a projected response for API Gateway. It is used by
// a single invocation and is not safe for concurrent use.
type GatewaySink struct {
	status    int
	header    map[string][]string
	cookies   []string
	body      []byte
	finalized bool
}

// NewGatewaySink creates an empty sink
func NewGatewaySink() *GatewaySink {
	return &GatewaySink{header: make(map[string][]string)}
}

// SetStatus records the status code
func (s *GatewaySink) SetStatus(code int) error {
	if s.finalized {
		return bridge.ErrSinkFinalized
	}
	s.status = code
	return nil
}

// AddHeader appends a header value
func (s *GatewaySink) AddHeader(name, value string) error {
	if s.finalized {
		return bridge.ErrSinkFinalized
	}
	if strings.EqualFold(name, "Set-Cookie") {
		s.cookies = append(s.cookies, value)
	}
	s.header[name] = append(s.header[name], value)
	return nil
}

// Finalize stores the body and closes the sink
func (s *GatewaySink) Finalize(body []byte) error {
	if s.finalized {
		return bridge.ErrSinkFinalized
	}
	if s.status == 0 {
		return bridge.ErrStatusNotSet
	}
	s.body = append([]byte(nil), body...)
	s.finalized = true
	return nil
}

// Finalized reports whether Finalize has been called successfully
func (s *GatewaySink) Finalized() bool {
	return s.finalized
}

// Response returns the REST API (v1 payload) response event
func (s *GatewaySink) Response() events.APIGatewayProxyResponse {
	body, isBase64 := encodeBody(s.body)
	return events.APIGatewayProxyResponse{
		StatusCode:        s.status,
		MultiValueHeaders: s.header,
		Body:              body,
		IsBase64Encoded:   isBase64,
	}
}

// V2Response returns the HTTP API (v2 payload) response event. That format
// has no multi-value headers, so repeated values are comma-joined and
// cookies are returned separately.
func (s *GatewaySink) V2Response() events.APIGatewayV2HTTPResponse {
	header := make(map[string]string, len(s.header))
	for name, values := range s.header {
		if strings.EqualFold(name, "Set-Cookie") {
			continue
		}
		header[name] = strings.Join(values, ",")
	}

	body, isBase64 := encodeBody(s.body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode:      s.status,
		Headers:         header,
		Cookies:         append([]string(nil), s.cookies...),
		Body:            body,
		IsBase64Encoded: isBase64,
	}
}

// encodeBody returns text bodies as-is and base64-encodes anything that is
// not valid UTF-8.
func encodeBody(body []byte) (string, bool) {
	if utf8.Valid(body) {
		return string(body), false
	}
	return base64.StdEncoding.EncodeToString(body), true
}

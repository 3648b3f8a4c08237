package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"serverless-bridge/pkg/message"
)

// InboundRequest is the callback-style request handed over by an inbound
// transport. The bridge only reads it.
type InboundRequest struct {
	Method string
	// URL is the path plus query string, e.g. "/a?b=1".
	URL    string
	Header map[string][]string
	// Body is nil, raw bytes ([]byte, json.RawMessage, string, io.Reader) or
	// an already decoded value that is re-encoded as JSON.
	Body any
}

// InboundFromHTTP reads the callback-style view of r. net/http moves the Host
// header into r.Host, so it is put back into the header map here.
func InboundFromHTTP(r *http.Request) *InboundRequest {
	header := make(map[string][]string, len(r.Header)+1)
	for name, values := range r.Header {
		header[name] = append([]string(nil), values...)
	}
	if r.Host != "" && len(header["Host"]) == 0 {
		header["Host"] = []string{r.Host}
	}

	in := &InboundRequest{
		Method: r.Method,
		URL:    r.URL.RequestURI(),
		Header: header,
	}
	if r.Body != nil && r.Body != http.NoBody {
		in.Body = r.Body
	}
	return in
}

// BuildRequest constructs the request value for in. The URL is made absolute
// from the forwarding-protocol and Host headers, falling back to the
// configured defaults. Bodies are dropped for GET and HEAD.
func (b *Bridge) BuildRequest(in *InboundRequest) (*message.Request, error) {
	if in == nil {
		return nil, newError(OpConstruct, nil, ErrNilRequest)
	}

	header := message.NewHeader(in.Header)

	scheme := forwardedScheme(header.Get(ForwardedProtoHeader))
	if scheme == "" {
		scheme = b.defaultScheme
	}
	host := strings.TrimSpace(header.Get("Host"))
	if host == "" {
		host = b.defaultHost
	}

	path := in.URL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body []byte
	if carriesBody(in.Method) {
		var err error
		body, err = encodeBody(in.Body)
		if err != nil {
			return nil, newError(OpConstruct, in, err)
		}
	}

	req, err := message.NewRequest(in.Method, scheme+"://"+host+path, header, body)
	if err != nil {
		return nil, newError(OpConstruct, in, err)
	}
	return req, nil
}

// forwardedScheme returns the client-facing scheme from a forwarding-protocol
// header value. Proxy chains append, so the first entry is the client's.
func forwardedScheme(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.ToLower(strings.TrimSpace(first))
}

func carriesBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead:
		return false
	default:
		return true
	}
}

// encodeBody turns an inbound body into raw bytes. Raw representations are
// passed through untouched; anything else is treated as decoded data and
// re-encoded as JSON. A nil result means no body.
func encodeBody(body any) ([]byte, error) {
	if isNil(body) {
		return nil, nil
	}

	var raw []byte
	switch v := body.(type) {
	case json.RawMessage:
		raw = []byte(v)
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		raw = data
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %T: %v", ErrUnsupportedBody, body, err)
		}
		raw = data
	}

	if len(raw) == 0 {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

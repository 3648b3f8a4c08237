// Package lambda serves the bridge behind Amazon API Gateway. Proxy events
// are read as inbound requests and responses are collected by a sink that
// produces the proxy response event.
package lambda

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"serverless-bridge/pkg/bridge"
)

// InboundFromEvent reads a REST API (v1 payload) proxy event. Multi-value
// headers and query parameters are preferred when API Gateway provides them.
func InboundFromEvent(event events.APIGatewayProxyRequest) (*bridge.InboundRequest, error) {
	header := event.MultiValueHeaders
	if len(header) == 0 {
		header = singleToMulti(event.Headers)
	}

	query := url.Values(event.MultiValueQueryStringParameters)
	if len(query) == 0 {
		query = url.Values(singleToMulti(event.QueryStringParameters))
	}

	target := event.Path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	body, err := eventBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &bridge.InboundRequest{
		Method: event.HTTPMethod,
		URL:    target,
		Header: copyHeader(header),
		Body:   body,
	}, nil
}

// InboundFromV2Event reads an HTTP API (v2 payload) proxy event. Cookies
// travel outside the header map in this format and are folded back in.
func InboundFromV2Event(event events.APIGatewayV2HTTPRequest) (*bridge.InboundRequest, error) {
	header := singleToMulti(event.Headers)
	for _, cookie := range event.Cookies {
		header["Cookie"] = append(header["Cookie"], cookie)
	}

	target := event.RawPath
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}

	body, err := eventBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &bridge.InboundRequest{
		Method: event.RequestContext.HTTP.Method,
		URL:    target,
		Header: header,
		Body:   body,
	}, nil
}

func eventBody(body string, isBase64 bool) (any, error) {
	if body == "" {
		return nil, nil
	}
	if !isBase64 {
		return body, nil
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return data, nil
}

func singleToMulti(m map[string]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = []string{v}
	}
	return out
}

func copyHeader(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, vs := range m {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

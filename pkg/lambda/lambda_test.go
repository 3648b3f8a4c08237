package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"serverless-bridge/internal/config"
	"serverless-bridge/pkg/bridge"
	"serverless-bridge/pkg/message"
)

func echoBridge() *bridge.Bridge {
	return bridge.New(message.HandlerFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
		var h message.Header
		h.Add("Content-Type", "application/octet-stream")
		h.Add("Set-Cookie", "a=1")
		h.Add("Set-Cookie", "b=2")
		h.Add("X-Url", req.URL().String())
		h.Add("X-Method", req.Method())
		return message.NewResponse(http.StatusOK, h, req.Body()), nil
	}))
}

func TestInboundFromEvent(t *testing.T) {
	t.Run("MultiValuePreferred", func(t *testing.T) {
		in, err := InboundFromEvent(events.APIGatewayProxyRequest{
			HTTPMethod:                      http.MethodPost,
			Path:                            "/app/items",
			Headers:                         map[string]string{"Accept": "ignored"},
			MultiValueHeaders:               map[string][]string{"Accept": {"a", "b"}, "Host": {"api.example.com"}},
			QueryStringParameters:           map[string]string{"q": "ignored"},
			MultiValueQueryStringParameters: map[string][]string{"q": {"1", "2"}, "a": {"x y"}},
			Body:                            "hello",
		})
		if err != nil {
			t.Fatalf("InboundFromEvent failed: %v", err)
		}
		if in.URL != "/app/items?a=x+y&q=1&q=2" {
			t.Errorf("Unexpected URL %q", in.URL)
		}
		if len(in.Header["Accept"]) != 2 {
			t.Errorf("Expected multi-value Accept, got %v", in.Header["Accept"])
		}
		if in.Body != "hello" {
			t.Errorf("Unexpected body %v", in.Body)
		}
	})

	t.Run("SingleValueFallback", func(t *testing.T) {
		in, err := InboundFromEvent(events.APIGatewayProxyRequest{
			HTTPMethod:            http.MethodGet,
			Path:                  "/app",
			Headers:               map[string]string{"Host": "h"},
			QueryStringParameters: map[string]string{"k": "v"},
		})
		if err != nil {
			t.Fatalf("InboundFromEvent failed: %v", err)
		}
		if in.URL != "/app?k=v" || in.Header["Host"][0] != "h" || in.Body != nil {
			t.Errorf("Unexpected inbound request %+v", in)
		}
	})

	t.Run("Base64Body", func(t *testing.T) {
		raw := []byte{0xde, 0xad, 0xbe, 0xef}
		in, err := InboundFromEvent(events.APIGatewayProxyRequest{
			HTTPMethod:      http.MethodPut,
			Path:            "/",
			Body:            base64.StdEncoding.EncodeToString(raw),
			IsBase64Encoded: true,
		})
		if err != nil {
			t.Fatalf("InboundFromEvent failed: %v", err)
		}
		if got, ok := in.Body.([]byte); !ok || string(got) != string(raw) {
			t.Errorf("Expected decoded bytes, got %#v", in.Body)
		}
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := InboundFromEvent(events.APIGatewayProxyRequest{
			HTTPMethod:      http.MethodPost,
			Path:            "/",
			Body:            "!!!",
			IsBase64Encoded: true,
		})
		if err == nil {
			t.Error("Expected error for invalid base64 body")
		}
	})
}

func TestInboundFromV2Event(t *testing.T) {
	event := events.APIGatewayV2HTTPRequest{
		RawPath:        "/app/x",
		RawQueryString: "a=1&a=2",
		Headers:        map[string]string{"host": "api.example.com", "x-forwarded-proto": "https"},
		Cookies:        []string{"s=1", "t=2"},
		Body:           "data",
	}
	event.RequestContext.HTTP.Method = http.MethodPatch

	in, err := InboundFromV2Event(event)
	if err != nil {
		t.Fatalf("InboundFromV2Event failed: %v", err)
	}
	if in.Method != http.MethodPatch || in.URL != "/app/x?a=1&a=2" {
		t.Errorf("Unexpected request line %s %s", in.Method, in.URL)
	}
	if len(in.Header["Cookie"]) != 2 {
		t.Errorf("Expected cookies folded into headers, got %v", in.Header["Cookie"])
	}
}

func TestGatewaySink(t *testing.T) {
	t.Run("TextBody", func(t *testing.T) {
		sink := NewGatewaySink()
		_ = sink.SetStatus(http.StatusCreated)
		_ = sink.AddHeader("X-A", "1")
		_ = sink.AddHeader("X-A", "2")
		if err := sink.Finalize([]byte("plain text")); err != nil {
			t.Fatalf("Finalize failed: %v", err)
		}

		resp := sink.Response()
		if resp.StatusCode != http.StatusCreated || resp.Body != "plain text" || resp.IsBase64Encoded {
			t.Errorf("Unexpected response %+v", resp)
		}
		if len(resp.MultiValueHeaders["X-A"]) != 2 {
			t.Errorf("Expected two X-A values, got %v", resp.MultiValueHeaders)
		}
	})

	t.Run("BinaryBody", func(t *testing.T) {
		raw := []byte{0xff, 0xfe, 0x00}
		sink := NewGatewaySink()
		_ = sink.SetStatus(http.StatusOK)
		_ = sink.Finalize(raw)

		resp := sink.Response()
		if !resp.IsBase64Encoded || resp.Body != base64.StdEncoding.EncodeToString(raw) {
			t.Errorf("Expected base64 body, got %+v", resp)
		}
	})

	t.Run("ExactlyOnce", func(t *testing.T) {
		sink := NewGatewaySink()
		if err := sink.Finalize(nil); !errors.Is(err, bridge.ErrStatusNotSet) {
			t.Errorf("Expected ErrStatusNotSet, got %v", err)
		}
		_ = sink.SetStatus(http.StatusOK)
		_ = sink.Finalize(nil)
		if err := sink.Finalize(nil); !errors.Is(err, bridge.ErrSinkFinalized) {
			t.Errorf("Expected ErrSinkFinalized, got %v", err)
		}
		if err := sink.AddHeader("X", "1"); !errors.Is(err, bridge.ErrSinkFinalized) {
			t.Errorf("Expected ErrSinkFinalized, got %v", err)
		}
		if !sink.Finalized() {
			t.Error("Expected sink to report finalized")
		}
	})

	t.Run("V2Response", func(t *testing.T) {
		sink := NewGatewaySink()
		_ = sink.SetStatus(http.StatusOK)
		_ = sink.AddHeader("Vary", "Accept")
		_ = sink.AddHeader("Vary", "Origin")
		_ = sink.AddHeader("Set-Cookie", "a=1")
		_ = sink.AddHeader("Set-Cookie", "b=2")
		_ = sink.Finalize([]byte("ok"))

		resp := sink.V2Response()
		if resp.Headers["Vary"] != "Accept,Origin" {
			t.Errorf("Expected joined Vary, got %q", resp.Headers["Vary"])
		}
		if _, ok := resp.Headers["Set-Cookie"]; ok {
			t.Error("Expected Set-Cookie to be moved to Cookies")
		}
		if len(resp.Cookies) != 2 {
			t.Errorf("Expected two cookies, got %v", resp.Cookies)
		}
	})
}

func TestNewHandler(t *testing.T) {
	handler := NewHandler(echoBridge())

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:        http.MethodPost,
		Path:              "/app/echo",
		MultiValueHeaders: map[string][]string{"Host": {"api.example.com"}},
		Body:              `{"a":1}`,
	})
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != `{"a":1}` {
		t.Errorf("Unexpected response %+v", resp)
	}
	if got := resp.MultiValueHeaders["X-Url"]; len(got) != 1 || got[0] != "https://api.example.com/app/echo" {
		t.Errorf("Unexpected URL header %v", got)
	}
	if len(resp.MultiValueHeaders["Set-Cookie"]) != 2 {
		t.Errorf("Expected both cookies, got %v", resp.MultiValueHeaders["Set-Cookie"])
	}
}

func TestNewHandlerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	handler := NewHandler(bridge.New(message.HandlerFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
		return nil, boom
	})))

	_, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/"})
	if !errors.Is(err, boom) {
		t.Errorf("Expected handler error to propagate, got %v", err)
	}
}

func TestNewV2Handler(t *testing.T) {
	handler := NewV2Handler(echoBridge())

	event := events.APIGatewayV2HTTPRequest{
		RawPath: "/app/v2",
		Headers: map[string]string{"host": "h.example.com"},
	}
	event.RequestContext.HTTP.Method = http.MethodGet

	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	if resp.Headers["X-Url"] != "https://h.example.com/app/v2" || resp.Headers["X-Method"] != http.MethodGet {
		t.Errorf("Unexpected headers %v", resp.Headers)
	}
	if len(resp.Cookies) != 2 {
		t.Errorf("Expected cookies, got %v", resp.Cookies)
	}
}

func lambdaTestConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		Port:            "8080",
		ShutdownTimeout: 1,
		Log:             config.LogConfig{Level: "info", Format: "json"},
		Bridge:          config.BridgeConfig{DefaultScheme: "https", DefaultHost: "localhost", MountPath: "/app"},
		Lambda:          config.LambdaConfig{PayloadVersion: "1.0"},
	}
}

// flakyLoader fails the first load and succeeds afterwards
func flakyLoader(calls *int) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		*calls++
		if *calls == 1 {
			return nil, errors.New("not yet")
		}
		return lambdaTestConfig(), nil
	}
}

func TestContainerManager(t *testing.T) {
	calls := 0
	cm := NewContainerManager(flakyLoader(&calls))

	if _, err := cm.GetContainer(context.Background()); err == nil {
		t.Fatal("Expected first initialization to fail")
	}

	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	second, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if first != second {
		t.Error("Expected the container to be reused across invocations")
	}
	if calls != 2 {
		t.Errorf("Expected config to be loaded twice, got %d", calls)
	}
}

func TestContainerManagerCancelledContext(t *testing.T) {
	calls := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		calls++
		return lambdaTestConfig(), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cm.GetContainer(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no initialization for a cancelled context, got %d loads", calls)
	}

	if _, err := cm.GetContainer(context.Background()); err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if _, err := cm.GetContainer(ctx); err != nil {
		t.Errorf("Expected an initialized container to be returned, got %v", err)
	}
}

func TestNewManagedHandlerRetriesInitialization(t *testing.T) {
	calls := 0
	handler := NewManagedHandler(NewContainerManager(flakyLoader(&calls)))
	event := events.APIGatewayProxyRequest{
		HTTPMethod:        http.MethodGet,
		Path:              "/app/url",
		MultiValueHeaders: map[string][]string{"Host": {"api.example.com"}},
	}

	if _, err := handler(context.Background(), event); err == nil {
		t.Fatal("Expected the cold-start failure to be returned")
	}

	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, "https://api.example.com/app/url") {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestNewManagedV2Handler(t *testing.T) {
	calls := 0
	handler := NewManagedV2Handler(NewContainerManager(flakyLoader(&calls)))
	event := events.APIGatewayV2HTTPRequest{
		RawPath: "/app/url",
		Headers: map[string]string{"host": "h.example.com"},
	}
	event.RequestContext.HTTP.Method = http.MethodGet

	if _, err := handler(context.Background(), event); err == nil {
		t.Fatal("Expected the cold-start failure to be returned")
	}
	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Body, "https://h.example.com/app/url") {
		t.Errorf("Unexpected response %+v", resp)
	}
}

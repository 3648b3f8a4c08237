package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"serverless-bridge/pkg/bridge"
)

// ProxyHandler handles REST API (v1 payload) proxy events
type ProxyHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// V2Handler handles HTTP API (v2 payload) proxy events
type V2Handler func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewHandler serves v1 proxy events through b. Failures are logged and
// returned to the Lambda runtime, which reports the invocation as failed.
func NewHandler(b *bridge.Bridge) ProxyHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		in, err := InboundFromEvent(event)
		if err != nil {
			logFailure(ctx, event.HTTPMethod, event.Path, err)
			return events.APIGatewayProxyResponse{}, err
		}

		sink := NewGatewaySink()
		if err := b.Serve(ctx, in, sink); err != nil {
			logFailure(ctx, event.HTTPMethod, event.Path, err)
			return events.APIGatewayProxyResponse{}, err
		}
		return sink.Response(), nil
	}
}

// NewV2Handler serves v2 proxy events through b
func NewV2Handler(b *bridge.Bridge) V2Handler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		method := event.RequestContext.HTTP.Method
		in, err := InboundFromV2Event(event)
		if err != nil {
			logFailure(ctx, method, event.RawPath, err)
			return events.APIGatewayV2HTTPResponse{}, err
		}

		sink := NewGatewaySink()
		if err := b.Serve(ctx, in, sink); err != nil {
			logFailure(ctx, method, event.RawPath, err)
			return events.APIGatewayV2HTTPResponse{}, err
		}
		return sink.V2Response(), nil
	}
}

// NewManagedHandler serves v1 proxy events through the container held by
// cm, resolving it on every invocation. A failed initialization is retried
// by the next invocation.
func NewManagedHandler(cm *ContainerManager) ProxyHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			logFailure(ctx, event.HTTPMethod, event.Path, err)
			return events.APIGatewayProxyResponse{}, err
		}
		return NewHandler(container.Bridge)(ctx, event)
	}
}

// NewManagedV2Handler is NewManagedHandler for v2 proxy events
func NewManagedV2Handler(cm *ContainerManager) V2Handler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			logFailure(ctx, event.RequestContext.HTTP.Method, event.RawPath, err)
			return events.APIGatewayV2HTTPResponse{}, err
		}
		return NewV2Handler(container.Bridge)(ctx, event)
	}
}

func logFailure(ctx context.Context, method, path string, err error) {
	fields := logrus.Fields{
		"method": method,
		"path":   path,
		"error":  err.Error(),
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		fields["aws_request_id"] = lc.AwsRequestID
	}
	logrus.WithFields(fields).Error("Bridge invocation failed")
}

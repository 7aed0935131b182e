// Package runtime adapts the relay handler to its hosting environments: a plain HTTP service and AWS Lambda.
package runtime

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/ask-relay/internal/handler"
	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/models"
)

// Supported Lambda payload types.
const (
	PayloadTypeAPIGatewayV1 = "api-gateway-v1"
	PayloadTypeAPIGatewayV2 = "api-gateway-v2"
	PayloadTypeLambdaURL    = "lambda-url"
)

// MaxBodyBytes bounds inbound HTTP request bodies.
const MaxBodyBytes = 1 << 20

type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType sets the Lambda event format served by LambdaHandler.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

type Runtime struct {
	*handler.Handler
	logger      *slog.Logger
	payloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, payloadType: PayloadTypeAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// LambdaHandler returns the Lambda handler function matching the configured payload type.
func (r *Runtime) LambdaHandler() (any, error) {
	switch r.payloadType {
	case PayloadTypeAPIGatewayV1:
		return r.HandleAPIGatewayV1, nil
	case PayloadTypeAPIGatewayV2:
		return r.HandleAPIGatewayV2, nil
	case PayloadTypeLambdaURL:
		return r.HandleLambdaURL, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// HandleAPIGatewayV1 is the Lambda handler for API Gateway REST (v1) proxy events.
func (r *Runtime) HandleAPIGatewayV1(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r.logger.Info("received API Gateway v1 request")
	response := r.process(ctx, event.HTTPMethod, event.QueryStringParameters, event.Headers, event.Body, event.IsBase64Encoded)
	return events.APIGatewayProxyResponse{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
	}, nil
}

// HandleAPIGatewayV2 is the Lambda handler for API Gateway HTTP (v2) events.
func (r *Runtime) HandleAPIGatewayV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	r.logger.Info("received API Gateway v2 request")
	response := r.process(ctx, event.RequestContext.HTTP.Method, event.QueryStringParameters, event.Headers, event.Body, event.IsBase64Encoded)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
	}, nil
}

// HandleLambdaURL is the Lambda handler for function URL events.
func (r *Runtime) HandleLambdaURL(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	r.logger.Info("received Lambda function URL request")
	response := r.process(ctx, event.RequestContext.HTTP.Method, event.QueryStringParameters, event.Headers, event.Body, event.IsBase64Encoded)
	return events.LambdaFunctionURLResponse{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
	}, nil
}

func (r *Runtime) process(ctx context.Context, method string, query, headers map[string]string, body string, isBase64 bool) models.Response {
	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			r.logger.Warn("failed to decode base64 body", slog.Any("error", err))
			decoded = nil
		}
		raw = decoded
	}

	// Lower-case incoming header names for compatibility purposes
	lch := make(map[string]string, len(headers))
	for k, v := range headers {
		lch[strings.ToLower(k)] = v
	}

	bus := r.Handler.Process(ctx, models.Request{
		Method:  strings.ToUpper(method),
		Query:   query,
		Body:    raw,
		Headers: lch,
	})
	return bus.Response
}

// ServeHTTP is the HTTP handler for the runtime. Every method is accepted.
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, MaxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		r.logger.Warn("rejecting oversized request body", slog.Int64("limit", tooLarge.Limit))
		helpers.RespondHTTP(helpers.JSONResponse(http.StatusRequestEntityTooLarge, models.Failure{Error: "request body too large"}), resp)
		return
	}
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(helpers.JSONResponse(http.StatusInternalServerError, models.Failure{Error: "server error", Detail: err.Error()}), resp)
		return
	}

	headers := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		headers[strings.ToLower(k)] = v[0]
	}
	query := make(map[string]string)
	for k, v := range req.URL.Query() {
		query[k] = v[0]
	}

	bus := r.Handler.Process(req.Context(), models.Request{
		Method:  req.Method,
		Query:   query,
		Body:    body,
		Headers: headers,
	})
	helpers.RespondHTTP(bus.Response, resp)
}

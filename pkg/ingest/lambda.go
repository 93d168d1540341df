package ingest

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaEvent accepts function URL and HTTP API payloads as well as REST API proxy
// payloads, which carry the method in httpMethod.
type LambdaEvent struct {
	events.LambdaFunctionURLRequest
	HTTPMethod string `json:"httpMethod"`
}

// Method resolves the HTTP method. Events without one are treated as POST when they
// carry a body and GET otherwise.
func (e *LambdaEvent) Method() string {
	if e.HTTPMethod != "" {
		return e.HTTPMethod
	}
	if m := e.RequestContext.HTTP.Method; m != "" {
		return m
	}
	if e.Body != "" {
		return http.MethodPost
	}
	return http.MethodGet
}

// HandleLambda is the Lambda entrypoint. Request-level failures are always returned
// as responses, never as errors.
func (h *Handler) HandleLambda(ctx context.Context, event LambdaEvent) (events.LambdaFunctionURLResponse, error) {
	requestID := event.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}

	req := Request{Method: event.Method(), RequestID: requestID, Body: []byte(event.Body)}

	if event.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return toLambdaResponse(h.InvalidBody(ctx, req, err)), nil
		}
		req.Body = raw
	}

	return toLambdaResponse(h.Handle(ctx, req)), nil
}

func toLambdaResponse(resp Response) events.LambdaFunctionURLResponse {
	return events.LambdaFunctionURLResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

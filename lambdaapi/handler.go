// Package lambdaapi serves query and mutation documents from API Gateway
// proxy events.
package lambdaapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/pawtrail/graph"
)

// Executor runs a parsed request. *graph.Service satisfies it.
type Executor interface {
	Execute(ctx context.Context, req graph.Request) graph.Response
}

// Body is the JSON request body.
type Body struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Handler answers API Gateway proxy requests.
type Handler struct {
	executor Executor
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(executor Executor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		executor: executor,
		logger:   logger,
	}
}

// Handle parses the document and executes it. Field failures still produce a
// 200 response carrying errors; malformed bodies and documents produce 400.
// GET requests take the document from the "query" parameter and may only run
// queries.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body Body
	switch event.HTTPMethod {
	case http.MethodPost:
		if err := json.Unmarshal([]byte(event.Body), &body); err != nil {
			return h.reject(http.StatusBadRequest, "request body must be a JSON object: "+err.Error()), nil
		}
	case http.MethodGet:
		body.Query = event.QueryStringParameters["query"]
		body.OperationName = event.QueryStringParameters["operationName"]
		if raw := event.QueryStringParameters["variables"]; raw != "" {
			if err := json.Unmarshal([]byte(raw), &body.Variables); err != nil {
				return h.reject(http.StatusBadRequest, "variables must be a JSON object: "+err.Error()), nil
			}
		}
	default:
		return h.reject(http.StatusMethodNotAllowed, "method "+event.HTTPMethod+" not allowed"), nil
	}

	if body.Query == "" {
		return h.reject(http.StatusBadRequest, "query is required"), nil
	}

	req, err := graph.ParseRequest(body.Query, body.OperationName, body.Variables)
	if err != nil {
		return h.reject(http.StatusBadRequest, err.Error()), nil
	}
	if event.HTTPMethod == http.MethodGet && req.Operation == graph.OperationMutation {
		return h.reject(http.StatusMethodNotAllowed, "mutations require POST"), nil
	}

	resp := h.executor.Execute(ctx, req)
	if len(resp.Errors) > 0 {
		h.logger.Info("request completed with field errors",
			"requestID", event.RequestContext.RequestID,
			"operation", req.Operation,
			"errors", len(resp.Errors),
		)
	}
	return h.respond(http.StatusOK, resp), nil
}

func (h *Handler) reject(status int, message string) events.APIGatewayProxyResponse {
	h.logger.Warn("rejected request", "status", status, "reason", message)
	return h.respond(status, graph.Response{
		Errors: []*graph.FieldError{{
			Message:    message,
			Extensions: map[string]any{"kind": graph.KindInvalidSelection},
		}},
	})
}

func (h *Handler) respond(status int, resp graph.Response) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"errors":[{"message":"internal error","extensions":{"kind":"INTERNAL"}}]}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}

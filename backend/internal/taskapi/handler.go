// Package taskapi exposes the task store through an API Gateway proxy
// Lambda handler.
//
// Routes (path parameters in braces):
//
//	POST   /tenants/{tenantId}/users/{userId}/tasks
//	GET    /tenants/{tenantId}/users/{userId}/tasks
//	GET    /tenants/{tenantId}/users/{userId}/tasks/{taskId}
//	PUT    /tenants/{tenantId}/users/{userId}/tasks/{taskId}
//	DELETE /tenants/{tenantId}/users/{userId}/tasks/{taskId}
package taskapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/tasklab/serverless-tasks/backend/internal/tasks"
	"go.uber.org/zap"
)

// TaskStore is the persistence surface the handler needs.
type TaskStore interface {
	Create(ctx context.Context, tenantID, userID string, in tasks.CreateInput) (*tasks.Task, error)
	Get(ctx context.Context, tenantID, userID, taskID string) (*tasks.Task, error)
	Update(ctx context.Context, tenantID, userID, taskID string, fields map[string]any) (*tasks.Task, error)
	Delete(ctx context.Context, tenantID, userID, taskID string) error
	List(ctx context.Context, tenantID, userID string) ([]tasks.Task, error)
}

// Handler routes API Gateway proxy events to the task store.
type Handler struct {
	store    TaskStore
	log      *zap.Logger
	validate *validator.Validate
}

func NewHandler(store TaskStore, log *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		log:      log,
		validate: validator.New(),
	}
}

// Handle is the Lambda entry point for a single API Gateway request.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := h.log.With(traceFields(ctx)...)
	log.Info("handling request",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path))

	tenantID := req.PathParameters["tenantId"]
	userID := req.PathParameters["userId"]
	taskID := req.PathParameters["taskId"]
	if tenantID == "" || userID == "" {
		return respond(http.StatusBadRequest, errorBody("missing tenantId or userId"))
	}

	switch req.HTTPMethod {
	case http.MethodPost:
		return h.create(ctx, log, tenantID, userID, req.Body)
	case http.MethodGet:
		if taskID == "" {
			return h.list(ctx, log, tenantID, userID)
		}
		return h.get(ctx, log, tenantID, userID, taskID)
	case http.MethodPut:
		return h.update(ctx, log, tenantID, userID, taskID, req.Body)
	case http.MethodDelete:
		return h.remove(ctx, log, tenantID, userID, taskID)
	default:
		return respond(http.StatusBadRequest, errorBody("unsupported method "+req.HTTPMethod))
	}
}

func (h *Handler) create(ctx context.Context, log *zap.Logger, tenantID, userID, body string) (events.APIGatewayProxyResponse, error) {
	var in tasks.CreateInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return respond(http.StatusBadRequest, errorBody("invalid JSON in request body"))
	}
	if err := h.validate.Struct(in); err != nil {
		return respond(http.StatusBadRequest, errorBody("title is required"))
	}

	task, err := h.store.Create(ctx, tenantID, userID, in)
	if err != nil {
		return h.internalError(log, "creating task", err)
	}
	return respond(http.StatusCreated, task)
}

func (h *Handler) get(ctx context.Context, log *zap.Logger, tenantID, userID, taskID string) (events.APIGatewayProxyResponse, error) {
	task, err := h.store.Get(ctx, tenantID, userID, taskID)
	if errors.Is(err, tasks.ErrNotFound) {
		return respond(http.StatusNotFound, errorBody("task not found"))
	}
	if err != nil {
		return h.internalError(log, "reading task", err)
	}
	return respond(http.StatusOK, task)
}

func (h *Handler) list(ctx context.Context, log *zap.Logger, tenantID, userID string) (events.APIGatewayProxyResponse, error) {
	all, err := h.store.List(ctx, tenantID, userID)
	if err != nil {
		return h.internalError(log, "listing tasks", err)
	}
	return respond(http.StatusOK, map[string]any{"tasks": all})
}

func (h *Handler) update(ctx context.Context, log *zap.Logger, tenantID, userID, taskID, body string) (events.APIGatewayProxyResponse, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return respond(http.StatusBadRequest, errorBody("invalid JSON in request body"))
	}

	task, err := h.store.Update(ctx, tenantID, userID, taskID, fields)
	switch {
	case errors.Is(err, tasks.ErrNoUpdatableFields):
		return respond(http.StatusBadRequest, errorBody("no valid fields to update"))
	case errors.Is(err, tasks.ErrNotFound):
		return respond(http.StatusNotFound, errorBody("task not found"))
	case err != nil:
		return h.internalError(log, "updating task", err)
	}
	return respond(http.StatusOK, map[string]any{"message": "Task updated", "task": task})
}

func (h *Handler) remove(ctx context.Context, log *zap.Logger, tenantID, userID, taskID string) (events.APIGatewayProxyResponse, error) {
	err := h.store.Delete(ctx, tenantID, userID, taskID)
	if errors.Is(err, tasks.ErrNotFound) {
		return respond(http.StatusNotFound, errorBody("task not found"))
	}
	if err != nil {
		return h.internalError(log, "deleting task", err)
	}
	return respond(http.StatusOK, map[string]any{"message": "Task deleted"})
}

func (h *Handler) internalError(log *zap.Logger, msg string, err error) (events.APIGatewayProxyResponse, error) {
	log.Error(msg, zap.Error(err))
	return respond(http.StatusInternalServerError, errorBody("internal server error"))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// respond serializes body and attaches the CORS headers the frontend
// expects. Serialization failures degrade to a bare 500.
func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(b),
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "*",
		},
	}, nil
}

/*
Package condition provides the HTTP interface for project conditions.

# Routing Strategy

The router is mounted under /api/session/project/{projectID}/conditions and
every handler authorizes the session against the project before touching the
service — a non-member gets a masked 401 and never learns whether the project
or any of its conditions exist.
*/
package condition

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/smrtlabs/smrt/internal/platform/request"
	"github.com/smrtlabs/smrt/internal/platform/respond"
)

// AccessGuard authorizes a session against a project. Implemented by the
// project service.
type AccessGuard interface {
	EnsureAccess(context context.Context, sessionID, projectID string) (string, error)
}

// # Handler Implementation

// Handler implements the HTTP layer for condition operations.
type Handler struct {
	service *Service
	guard   AccessGuard
}

// NewHandler constructs a new condition [Handler].
func NewHandler(service *Service, guard AccessGuard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the condition endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listConditions)
	router.Post("/", handler.createCondition)
	router.Patch("/{conditionID}", handler.updateCondition)
	router.Delete("/{conditionID}", handler.deleteCondition)

	return router
}

// authorize resolves the session and checks project membership.
func (handler *Handler) authorize(writer http.ResponseWriter, request *http.Request) (string, bool) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	projectID := requestutil.ID(request, "projectID")

	if _, err := handler.guard.EnsureAccess(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	return projectID, true
}

// # Condition Endpoints

/*
GET /api/session/project/{projectID}/conditions.

Response:
  - 200: []Condition: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) listConditions(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	conditions, err := handler.service.List(request.Context(), projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, conditions)
}

/*
POST /api/session/project/{projectID}/conditions.

Request (Body):
  - { "name": "string", "message": "string?" }

Response:
  - 201: Condition: Created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) createCondition(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Create(request.Context(), projectID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
PATCH /api/session/project/{projectID}/conditions/{conditionID}.

Response:
  - 200: Condition: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Condition not in this project
*/
func (handler *Handler) updateCondition(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	conditionID := requestutil.ID(request, "conditionID")

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), projectID, conditionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/conditions/{conditionID}.

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Condition not in this project
*/
func (handler *Handler) deleteCondition(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	conditionID := requestutil.ID(request, "conditionID")

	if err := handler.service.Delete(request.Context(), projectID, conditionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Package feature provides the HTTP interface for project features and their
requirements.

# Routing Strategy

The router is mounted under /api/session/project/{projectID}/features. Every
handler authorizes the session against the project first; requirement routes
nest under /{featureID}/requirements and are additionally scoped by feature,
so a requirement id is unreachable through any other feature or project.
*/
package feature

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

// Handler implements the HTTP layer for feature operations.
type Handler struct {
	service *Service
	guard   AccessGuard
}

// NewHandler constructs a new feature [Handler].
func NewHandler(service *Service, guard AccessGuard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the feature endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listFeatures)
	router.Post("/", handler.createFeature)
	router.Get("/{featureID}", handler.getFeature)
	router.Patch("/{featureID}", handler.updateFeature)
	router.Delete("/{featureID}", handler.deleteFeature)

	// ## Feature Requirements
	router.Get("/{featureID}/requirements", handler.listRequirements)
	router.Post("/{featureID}/requirements", handler.createRequirement)
	router.Patch("/{featureID}/requirements/{requirementID}", handler.updateRequirement)
	router.Delete("/{featureID}/requirements/{requirementID}", handler.deleteRequirement)

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

// # Feature Endpoints

/*
GET /api/session/project/{projectID}/features.

Response:
  - 200: []Feature: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) listFeatures(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	features, err := handler.service.List(request.Context(), projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, features)
}

/*
POST /api/session/project/{projectID}/features.

Request (Body):
  - { "name": "string", "message": "string?", "status": "open|in_progress|done?" }

Response:
  - 201: Feature: Created entity (status defaults to open)
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) createFeature(writer http.ResponseWriter, request *http.Request) {
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
GET /api/session/project/{projectID}/features/{featureID}.

Response:
  - 200: Feature: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Feature not in this project
*/
func (handler *Handler) getFeature(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")

	record, err := handler.service.Get(request.Context(), projectID, featureID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
PATCH /api/session/project/{projectID}/features/{featureID}.

Response:
  - 200: Feature: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Feature not in this project
*/
func (handler *Handler) updateFeature(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), projectID, featureID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/features/{featureID}.

Response:
  - 204: No Content: Success (requirements cascade)
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Feature not in this project
*/
func (handler *Handler) deleteFeature(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")

	if err := handler.service.Delete(request.Context(), projectID, featureID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Requirement Endpoints

/*
GET /api/session/project/{projectID}/features/{featureID}/requirements.

Response:
  - 200: []Requirement: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Feature not in this project
*/
func (handler *Handler) listRequirements(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")

	requirements, err := handler.service.ListRequirements(request.Context(), projectID, featureID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requirements)
}

/*
POST /api/session/project/{projectID}/features/{featureID}/requirements.

Request (Body):
  - { "name": "string", "status": "open|in_progress|done" }

Response:
  - 201: Requirement: Created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Feature not in this project
*/
func (handler *Handler) createRequirement(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")

	var input RequirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateRequirement(request.Context(), projectID, featureID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
PATCH /api/session/project/{projectID}/features/{featureID}/requirements/{requirementID}.

Response:
  - 200: Requirement: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Requirement not in this feature/project
*/
func (handler *Handler) updateRequirement(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")
	requirementID := requestutil.ID(request, "requirementID")

	var input RequirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateRequirement(request.Context(), projectID, featureID, requirementID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/features/{featureID}/requirements/{requirementID}.

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Requirement not in this feature/project
*/
func (handler *Handler) deleteRequirement(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	featureID := requestutil.ID(request, "featureID")
	requirementID := requestutil.ID(request, "requirementID")

	if err := handler.service.DeleteRequirement(request.Context(), projectID, featureID, requirementID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

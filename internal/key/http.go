/*
Package key provides the HTTP interface for API key management on the web
surface.

# Routing Strategy

The router is mounted under /api/session/project/{projectID}/keys and every
handler authorizes the session against the project first. Creation is the
only endpoint that ever carries a raw secret, under the "token" field.
*/
package key

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

// Handler implements the HTTP layer for key operations.
type Handler struct {
	service *Service
	guard   AccessGuard
}

// NewHandler constructs a new key [Handler].
func NewHandler(service *Service, guard AccessGuard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the key endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listKeys)
	router.Post("/", handler.createKey)
	router.Delete("/{keyID}", handler.deleteKey)

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

// keyInput is the JSON payload for key creation.
type keyInput struct {
	Name string `json:"name"`
}

// # Key Endpoints

/*
GET /api/session/project/{projectID}/keys.

Description: Lists the project's keys. No secret material is included.

Response:
  - 200: []Key: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) listKeys(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	keys, err := handler.service.List(request.Context(), projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, keys)
}

/*
POST /api/session/project/{projectID}/keys.

Description: Mints a key and returns the raw secret once, under "token".

Request (Body):
  - { "name": "string" }

Response:
  - 201: Created: Key record plus the one-time token
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) createKey(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	var input keyInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Create(request.Context(), projectID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
DELETE /api/session/project/{projectID}/keys/{keyID}.

Response:
  - 204: No Content: Key revoked
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Key not in this project
*/
func (handler *Handler) deleteKey(writer http.ResponseWriter, request *http.Request) {
	projectID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	keyID := requestutil.ID(request, "keyID")

	if err := handler.service.Delete(request.Context(), projectID, keyID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

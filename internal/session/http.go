/*
Package session provides the HTTP interface for session introspection.

# Routing Strategy

  - Session surface: GET / returns the caller's own session row.

The session cookie itself is issued by the middleware before this handler runs.
*/
package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/smrtlabs/smrt/internal/platform/request"
	"github.com/smrtlabs/smrt/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for session operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new session [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with session endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getSession)

	return router
}

/*
GET /api/session.

Description: Returns the caller's session row — the opaque id, the visit
counter, and the linked user id when logged in.

Response:
  - 200: Session: Success
  - 404: ErrNotFound: Session row missing (middleware not wired)
*/
func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Get(request.Context(), sessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

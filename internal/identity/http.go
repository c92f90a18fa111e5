/*
Package identity provides the HTTP interface for the open (unauthenticated)
surface.

# Routing Strategy

  - Health: liveness and dependency sentinels for machine clients.
  - Enrollment: POST /user/register (auto-login on success).
  - Authentication: POST /user/login, POST /user/logout.

These routes sit behind the session middleware (the cookie is minted before
registration or login runs) but require no authenticated user.
*/
package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smrtlabs/smrt/internal/platform/constants"
	requestutil "github.com/smrtlabs/smrt/internal/platform/request"
	"github.com/smrtlabs/smrt/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the open surface.
type Handler struct {
	service *Service

	// pingDatabase probes PostgreSQL for the /health/db sentinel.
	pingDatabase func() error
}

// NewHandler constructs a new identity [Handler].
func NewHandler(service *Service, pingDatabase func() error) *Handler {
	return &Handler{service: service, pingDatabase: pingDatabase}
}

// Routes returns a [chi.Router] configured with the open endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Health & Sentinels
	router.Get("/status/health", handler.statusHealth)
	router.Get("/health/api", handler.healthAPI)
	router.Get("/health/db", handler.healthDB)

	// ## Account Lifecycle
	router.Post("/user/register", handler.register)
	router.Post("/user/login", handler.login)
	router.Post("/user/logout", handler.logout)

	return router
}

// # Health Endpoints

/*
GET /api/open/status/health.

Description: Plain liveness check for the open surface.

Response:
  - 200: {status: "ok"}
*/
func (handler *Handler) statusHealth(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

/*
GET /api/open/health/api.

Description: Returns the API sentinel so machine clients can distinguish a
live SMRT backend from an arbitrary 200 response.

Response:
  - 200: {sentinel: "SMRT-V1-READY"}
*/
func (handler *Handler) healthAPI(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldSentinel: constants.HealthSentinel})
}

/*
GET /api/open/health/db.

Description: Probes the database and reports the sentinel.

Response:
  - 200: {sentinel: "SMRT-V1-READY"}
  - 500: {sentinel: "OFFLINE"}
*/
func (handler *Handler) healthDB(writer http.ResponseWriter, request *http.Request) {
	if err := handler.pingDatabase(); err != nil {
		respond.JSON(writer, http.StatusInternalServerError, respond.SuccessEnvelope{
			Data: map[string]string{constants.FieldSentinel: constants.HealthSentinelOffline},
		})
		return
	}

	respond.OK(writer, map[string]string{constants.FieldSentinel: constants.HealthSentinel})
}

// # Account Endpoints

/*
POST /api/open/user/register.

Description: Enrolls a new account and auto-links the caller's session
(the browser is logged in immediately after registering).

Request (Body):
  - { "email": "string", "password": "string", "name": "string?" }

Response:
  - 201: User: Created account (hash omitted)
  - 400: ErrInvalidJSON/Validation: Missing or malformed fields
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), sessionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/open/user/login.

Description: Verifies credentials and links the session to the account.
Unknown email and wrong password return the identical generic 401.

Request (Body):
  - { "email": "string", "password": "string" }

Response:
  - 200: {success: true, user}: Authenticated
  - 400: Validation: Missing fields
  - 401: ErrUnauthorized: Generic credential failure
  - 429: ErrRateLimited: Too many failed attempts for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Login(request.Context(), sessionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"success": true,
		"user":    user,
	})
}

/*
POST /api/open/user/logout.

Description: Clears the session's user link. The session row and its visit
history are retained. Idempotent for anonymous sessions.

Response:
  - 200: {status: "ok"}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), sessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

/*
Package discussion provides the HTTP interface for project discussions and
their message threads.

# Routing Strategy

The router is mounted under /api/session/project/{projectID}/discussions.
Every handler authorizes the session against the project first; message
routes nest under /{discussionID}/messages and are additionally scoped by
discussion. Messages posted on this surface are attributed with the web
user's display name.
*/
package discussion

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

// AuthorDirectory resolves a user's display name for message attribution.
// Implemented by the identity service.
type AuthorDirectory interface {
	AuthorName(context context.Context, userID string) (string, error)
}

// # Handler Implementation

// Handler implements the HTTP layer for discussion operations.
type Handler struct {
	service *Service
	guard   AccessGuard
	authors AuthorDirectory
}

// NewHandler constructs a new discussion [Handler].
func NewHandler(service *Service, guard AccessGuard, authors AuthorDirectory) *Handler {
	return &Handler{service: service, guard: guard, authors: authors}
}

// Routes returns a [chi.Router] configured with the discussion endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listDiscussions)
	router.Post("/", handler.createDiscussion)
	router.Get("/{discussionID}", handler.getDiscussion)
	router.Patch("/{discussionID}", handler.updateDiscussion)
	router.Delete("/{discussionID}", handler.deleteDiscussion)

	// ## Messages
	router.Get("/{discussionID}/messages", handler.listMessages)
	router.Post("/{discussionID}/messages", handler.postMessage)
	router.Patch("/{discussionID}/messages/{messageID}", handler.updateMessage)
	router.Delete("/{discussionID}/messages/{messageID}", handler.deleteMessage)

	return router
}

// authorize resolves the session and checks project membership, returning
// the project id and the authorized user id.
func (handler *Handler) authorize(writer http.ResponseWriter, request *http.Request) (string, string, bool) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return "", "", false
	}

	projectID := requestutil.ID(request, "projectID")

	userID, err := handler.guard.EnsureAccess(request.Context(), sessionID, projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return "", "", false
	}

	return projectID, userID, true
}

// # Discussion Endpoints

// discussionInput is the JSON payload for discussion create/update.
type discussionInput struct {
	Name string `json:"name"`
}

// messageInput is the JSON payload for message create/update.
type messageInput struct {
	Body string `json:"body"`
}

/*
GET /api/session/project/{projectID}/discussions.

Response:
  - 200: []Discussion: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) listDiscussions(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussions, err := handler.service.List(request.Context(), projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, discussions)
}

/*
POST /api/session/project/{projectID}/discussions.

Request (Body):
  - { "name": "string" }

Response:
  - 201: Discussion: Created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) createDiscussion(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	var input discussionInput
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
GET /api/session/project/{projectID}/discussions/{discussionID}.

Response:
  - 200: Discussion: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Discussion not in this project
*/
func (handler *Handler) getDiscussion(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")

	record, err := handler.service.Get(request.Context(), projectID, discussionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
PATCH /api/session/project/{projectID}/discussions/{discussionID}.

Response:
  - 200: Discussion: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Discussion not in this project
*/
func (handler *Handler) updateDiscussion(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")

	var input discussionInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), projectID, discussionID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/discussions/{discussionID}.

Response:
  - 204: No Content: Success (messages cascade)
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Discussion not in this project
*/
func (handler *Handler) deleteDiscussion(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")

	if err := handler.service.Delete(request.Context(), projectID, discussionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Message Endpoints

/*
GET /api/session/project/{projectID}/discussions/{discussionID}/messages.

Response:
  - 200: []Message: Success, oldest first
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Discussion not in this project
*/
func (handler *Handler) listMessages(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")

	messages, err := handler.service.ListMessages(request.Context(), projectID, discussionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messages)
}

/*
POST /api/session/project/{projectID}/discussions/{discussionID}/messages.

Description: Posts a message attributed to the caller's display name.

Request (Body):
  - { "body": "string" }

Response:
  - 201: Message: Created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Discussion not in this project
*/
func (handler *Handler) postMessage(writer http.ResponseWriter, request *http.Request) {
	projectID, userID, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")

	var input messageInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authorName, err := handler.authors.AuthorName(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.PostMessage(request.Context(), projectID, discussionID, input.Body, authorName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
PATCH /api/session/project/{projectID}/discussions/{discussionID}/messages/{messageID}.

Response:
  - 200: Message: Updated entity (authorName unchanged)
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Message not in this discussion/project
*/
func (handler *Handler) updateMessage(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")
	messageID := requestutil.ID(request, "messageID")

	var input messageInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateMessage(request.Context(), projectID, discussionID, messageID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/discussions/{discussionID}/messages/{messageID}.

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Message not in this discussion/project
*/
func (handler *Handler) deleteMessage(writer http.ResponseWriter, request *http.Request) {
	projectID, _, ok := handler.authorize(writer, request)
	if !ok {
		return
	}

	discussionID := requestutil.ID(request, "discussionID")
	messageID := requestutil.ID(request, "messageID")

	if err := handler.service.DeleteMessage(request.Context(), projectID, discussionID, messageID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

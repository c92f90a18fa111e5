/*
Package project provides the HTTP interface for project management.

# Routing Strategy

  - Collection: GET /list and POST /create for the caller's projects.
  - Detail: GET/PATCH/DELETE /{projectID}, membership-scoped (a foreign
    project reads as 404 without revealing whether it exists).
  - Templates: the project-requirements sub-resource, gated by EnsureAccess.

The handler translates between the REST layer and the [Service] domain.
*/
package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/smrtlabs/smrt/internal/platform/request"
	"github.com/smrtlabs/smrt/internal/platform/respond"
	"github.com/smrtlabs/smrt/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for project operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the project endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Collection
	router.Get("/list", handler.listProjects)
	router.Post("/create", handler.createProject)

	// ## Detail (membership-scoped)
	router.Get("/{projectID}", handler.getProject)
	router.Patch("/{projectID}", handler.updateProject)
	router.Delete("/{projectID}", handler.deleteProject)

	return router
}

// RequirementRoutes returns the project-requirements sub-resource router,
// mounted under /{projectID}/project-requirements.
func (handler *Handler) RequirementRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listRequirements)
	router.Post("/", handler.createRequirement)
	router.Patch("/{requirementID}", handler.updateRequirement)
	router.Delete("/{requirementID}", handler.deleteRequirement)

	return router
}

// # Project Endpoints

/*
GET /api/session/project/list.

Description: Retrieves a paginated list of projects the caller belongs to.

Request:
  - page: int
  - limit: int

Response:
  - 200: []Project: Paginated list
  - 401: ErrUnauthorized: Anonymous session
*/
func (handler *Handler) listProjects(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	projects, total, err := handler.service.List(request.Context(), sessionID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, projects, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
POST /api/session/project/create.

Description: Creates a project and enrolls the caller as its first member.

Request (Body):
  - { "name": "string", "description": "string?" }

Response:
  - 201: Project: Created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Anonymous session
*/
func (handler *Handler) createProject(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Create(request.Context(), sessionID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
GET /api/session/project/{projectID}.

Description: Retrieves one of the caller's projects. A project owned by
someone else reads identically to a missing one.

Response:
  - 200: Project: Success
  - 401: ErrUnauthorized: Anonymous session
  - 404: ErrNotFound: No such project in the caller's scope
*/
func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")

	record, err := handler.service.Get(request.Context(), sessionID, projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
PATCH /api/session/project/{projectID}.

Description: Updates a project's name/description, membership-scoped.

Request (Body):
  - { "name": "string", "description": "string?" }

Response:
  - 200: Project: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Anonymous session
  - 404: ErrNotFound: No such project in the caller's scope
*/
func (handler *Handler) updateProject(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), sessionID, projectID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}.

Description: Deletes a project; the database cascades to every sub-resource,
including API keys (CLI callers lose access immediately).

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Anonymous session
  - 404: ErrNotFound: No such project in the caller's scope
*/
func (handler *Handler) deleteProject(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")

	if err := handler.service.Delete(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Requirement Template Endpoints

// requirementInput is the JSON payload for template create/update.
type requirementInput struct {
	Name string `json:"name"`
}

/*
GET /api/session/project/{projectID}/project-requirements.

Response:
  - 200: []Requirement: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) listRequirements(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")

	if _, err := handler.service.EnsureAccess(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	requirements, err := handler.service.ListRequirements(request.Context(), projectID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requirements)
}

/*
POST /api/session/project/{projectID}/project-requirements.

Request (Body):
  - { "name": "string" }

Response:
  - 201: Requirement: Created template
  - 400: Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
*/
func (handler *Handler) createRequirement(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")

	if _, err := handler.service.EnsureAccess(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input requirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateRequirement(request.Context(), projectID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
PATCH /api/session/project/{projectID}/project-requirements/{requirementID}.

Response:
  - 200: Requirement: Updated template
  - 400: Validation: Invalid input data
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Template not in this project
*/
func (handler *Handler) updateRequirement(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")
	requirementID := requestutil.ID(request, "requirementID")

	if _, err := handler.service.EnsureAccess(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input requirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateRequirement(request.Context(), projectID, requirementID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/session/project/{projectID}/project-requirements/{requirementID}.

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Not a member (existence masked)
  - 404: ErrNotFound: Template not in this project
*/
func (handler *Handler) deleteRequirement(writer http.ResponseWriter, request *http.Request) {
	sessionID, err := requestutil.RequiredSessionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	projectID := requestutil.ID(request, "projectID")
	requirementID := requestutil.ID(request, "requirementID")

	if _, err := handler.service.EnsureAccess(request.Context(), sessionID, projectID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRequirement(request.Context(), projectID, requirementID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

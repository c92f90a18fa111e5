/*
Package cli provides the HTTP interface for machine clients authenticating
with project-scoped API keys.

# Routing Strategy

Every route lives under /api/cli/{projectID}/{keyID} and carries the raw
secret in the x-cli-secret header. A middleware validates the triple on each
request before any resource handler runs:

  - missing header → 401
  - unknown (projectID, keyID) pair → 404
  - wrong secret → 401

The surface mirrors the session routes' resources but is pinned to the single
project named in the path, so no handler ever takes a project id from the
body. Messages posted here are attributed with the key's name.
*/
package cli

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smrtlabs/smrt/internal/condition"
	"github.com/smrtlabs/smrt/internal/discussion"
	"github.com/smrtlabs/smrt/internal/feature"
	"github.com/smrtlabs/smrt/internal/key"
	"github.com/smrtlabs/smrt/internal/platform/constants"
	requestutil "github.com/smrtlabs/smrt/internal/platform/request"
	"github.com/smrtlabs/smrt/internal/platform/respond"
	"github.com/smrtlabs/smrt/internal/project"
)

// keyContextKey carries the validated key through the request context.
type keyContextKey struct{}

// validatedKey retrieves the key stored by the authentication middleware.
func validatedKey(request *http.Request) *key.Key {
	record, _ := request.Context().Value(keyContextKey{}).(*key.Key)
	return record
}

// # Handler Implementation

// Handler implements the CLI surface by composing the resource services.
type Handler struct {
	keys        *key.Service
	projects    *project.Service
	conditions  *condition.Service
	features    *feature.Service
	discussions *discussion.Service
}

// NewHandler constructs a new CLI [Handler].
func NewHandler(
	keys *key.Service,
	projects *project.Service,
	conditions *condition.Service,
	features *feature.Service,
	discussions *discussion.Service,
) *Handler {
	return &Handler{
		keys:        keys,
		projects:    projects,
		conditions:  conditions,
		features:    features,
		discussions: discussions,
	}
}

// Routes returns a [chi.Router] configured with the CLI endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/{projectID}/{keyID}", func(router chi.Router) {
		router.Use(handler.authenticate)

		router.Get("/check", handler.check)

		// ## Project
		router.Get("/", handler.getProject)
		router.Patch("/", handler.updateProject)

		// ## Conditions
		router.Get("/conditions", handler.listConditions)
		router.Post("/condition", handler.createCondition)
		router.Patch("/condition/{conditionID}", handler.updateCondition)
		router.Delete("/condition/{conditionID}", handler.deleteCondition)

		// ## Features
		router.Get("/features", handler.listFeatures)
		router.Post("/feature", handler.createFeature)
		router.Patch("/feature/{featureID}", handler.updateFeature)
		router.Delete("/feature/{featureID}", handler.deleteFeature)

		// ## Feature Requirements
		router.Get("/feature/{featureID}/requirements", handler.listFeatureRequirements)
		router.Post("/feature/{featureID}/requirement", handler.createFeatureRequirement)
		router.Patch("/feature/{featureID}/requirement/{requirementID}", handler.updateFeatureRequirement)
		router.Delete("/feature/{featureID}/requirement/{requirementID}", handler.deleteFeatureRequirement)

		// ## Discussions
		router.Get("/discussions", handler.listDiscussions)
		router.Post("/discussion", handler.createDiscussion)
		router.Get("/discussion/{discussionID}", handler.getDiscussion)
		router.Patch("/discussion/{discussionID}", handler.updateDiscussion)
		router.Delete("/discussion/{discussionID}", handler.deleteDiscussion)

		// ## Discussion Messages
		router.Get("/discussion/{discussionID}/messages", handler.listMessages)
		router.Post("/discussion/{discussionID}/message", handler.postMessage)
		router.Patch("/discussion/{discussionID}/message/{messageID}", handler.updateMessage)
		router.Delete("/discussion/{discussionID}/message/{messageID}", handler.deleteMessage)

		// ## Project Requirement Templates
		router.Get("/project-requirements", handler.listProjectRequirements)
		router.Post("/project-requirement", handler.createProjectRequirement)
		router.Patch("/project-requirement/{requirementID}", handler.updateProjectRequirement)
		router.Delete("/project-requirement/{requirementID}", handler.deleteProjectRequirement)
	})

	return router
}

// # Authentication

// authenticate validates the path's (projectID, keyID) pair against the
// x-cli-secret header and stashes the key for downstream handlers.
func (handler *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		projectID := requestutil.ID(request, "projectID")
		keyID := requestutil.ID(request, "keyID")
		rawSecret := request.Header.Get(constants.CLISecretHeader)

		record, err := handler.keys.Validate(request.Context(), projectID, keyID, rawSecret)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		requestContext := context.WithValue(request.Context(), keyContextKey{}, record)
		next.ServeHTTP(writer, request.WithContext(requestContext))
	})
}

// projectID reads the path's project id. The middleware has already verified
// the key belongs to it.
func projectID(request *http.Request) string {
	return requestutil.ID(request, "projectID")
}

// # Check Endpoint

/*
GET /api/cli/{projectID}/{keyID}/check.

Description: A cheap credential probe for CLI setup flows.

Response:
  - 200: { "validated": true, "project": { "id": ... }, "keyId": ... }
  - 401/404: Per the validation ordering
*/
func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	record := validatedKey(request)

	respond.OK(writer, map[string]any{
		"validated": true,
		"project":   map[string]string{"id": record.ProjectID},
		"keyId":     record.ID,
	})
}

// # Project Endpoints

/*
GET /api/cli/{projectID}/{keyID}/.

Response:
  - 200: Project: The key's project
*/
func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.projects.GetByID(request.Context(), projectID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

/*
PATCH /api/cli/{projectID}/{keyID}/.

Response:
  - 200: Project: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
*/
func (handler *Handler) updateProject(writer http.ResponseWriter, request *http.Request) {
	var input project.Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.projects.UpdateByID(request.Context(), projectID(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

// # Condition Endpoints

func (handler *Handler) listConditions(writer http.ResponseWriter, request *http.Request) {
	conditions, err := handler.conditions.List(request.Context(), projectID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, conditions)
}

func (handler *Handler) createCondition(writer http.ResponseWriter, request *http.Request) {
	var input condition.Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.conditions.Create(request.Context(), projectID(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateCondition(writer http.ResponseWriter, request *http.Request) {
	var input condition.Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.conditions.Update(request.Context(), projectID(request), requestutil.ID(request, "conditionID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteCondition(writer http.ResponseWriter, request *http.Request) {
	err := handler.conditions.Delete(request.Context(), projectID(request), requestutil.ID(request, "conditionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Feature Endpoints

func (handler *Handler) listFeatures(writer http.ResponseWriter, request *http.Request) {
	features, err := handler.features.List(request.Context(), projectID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, features)
}

func (handler *Handler) createFeature(writer http.ResponseWriter, request *http.Request) {
	var input feature.Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.features.Create(request.Context(), projectID(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateFeature(writer http.ResponseWriter, request *http.Request) {
	var input feature.Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.features.Update(request.Context(), projectID(request), requestutil.ID(request, "featureID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteFeature(writer http.ResponseWriter, request *http.Request) {
	err := handler.features.Delete(request.Context(), projectID(request), requestutil.ID(request, "featureID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Feature Requirement Endpoints

// nameInput is the JSON payload shared by requirement create/update.
type nameInput struct {
	Name string `json:"name"`
}

func (handler *Handler) listFeatureRequirements(writer http.ResponseWriter, request *http.Request) {
	requirements, err := handler.features.ListRequirements(request.Context(), projectID(request), requestutil.ID(request, "featureID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, requirements)
}

func (handler *Handler) createFeatureRequirement(writer http.ResponseWriter, request *http.Request) {
	var input feature.RequirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.features.CreateRequirement(request.Context(), projectID(request), requestutil.ID(request, "featureID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateFeatureRequirement(writer http.ResponseWriter, request *http.Request) {
	var input feature.RequirementInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.features.UpdateRequirement(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "featureID"),
		requestutil.ID(request, "requirementID"),
		input,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteFeatureRequirement(writer http.ResponseWriter, request *http.Request) {
	err := handler.features.DeleteRequirement(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "featureID"),
		requestutil.ID(request, "requirementID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Discussion Endpoints

func (handler *Handler) listDiscussions(writer http.ResponseWriter, request *http.Request) {
	discussions, err := handler.discussions.List(request.Context(), projectID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, discussions)
}

func (handler *Handler) createDiscussion(writer http.ResponseWriter, request *http.Request) {
	var input nameInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.discussions.Create(request.Context(), projectID(request), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) getDiscussion(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.discussions.Get(request.Context(), projectID(request), requestutil.ID(request, "discussionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) updateDiscussion(writer http.ResponseWriter, request *http.Request) {
	var input nameInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.discussions.Update(request.Context(), projectID(request), requestutil.ID(request, "discussionID"), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteDiscussion(writer http.ResponseWriter, request *http.Request) {
	err := handler.discussions.Delete(request.Context(), projectID(request), requestutil.ID(request, "discussionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Discussion Message Endpoints

// messageInput is the JSON payload for message create/update.
type messageInput struct {
	Body string `json:"body"`
}

func (handler *Handler) listMessages(writer http.ResponseWriter, request *http.Request) {
	messages, err := handler.discussions.ListMessages(request.Context(), projectID(request), requestutil.ID(request, "discussionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, messages)
}

/*
POST /api/cli/{projectID}/{keyID}/discussion/{discussionID}/message.

Description: Posts a message attributed to the validated key's name.
*/
func (handler *Handler) postMessage(writer http.ResponseWriter, request *http.Request) {
	var input messageInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.discussions.PostMessage(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "discussionID"),
		input.Body,
		validatedKey(request).Name,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateMessage(writer http.ResponseWriter, request *http.Request) {
	var input messageInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.discussions.UpdateMessage(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "discussionID"),
		requestutil.ID(request, "messageID"),
		input.Body,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteMessage(writer http.ResponseWriter, request *http.Request) {
	err := handler.discussions.DeleteMessage(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "discussionID"),
		requestutil.ID(request, "messageID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Project Requirement Template Endpoints

func (handler *Handler) listProjectRequirements(writer http.ResponseWriter, request *http.Request) {
	requirements, err := handler.projects.ListRequirements(request.Context(), projectID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, requirements)
}

func (handler *Handler) createProjectRequirement(writer http.ResponseWriter, request *http.Request) {
	var input nameInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.projects.CreateRequirement(request.Context(), projectID(request), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateProjectRequirement(writer http.ResponseWriter, request *http.Request) {
	var input nameInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.projects.UpdateRequirement(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "requirementID"),
		input.Name,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteProjectRequirement(writer http.ResponseWriter, request *http.Request) {
	err := handler.projects.DeleteRequirement(
		request.Context(),
		projectID(request),
		requestutil.ID(request, "requirementID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package project

import (
	"context"
	"errors"
	"log/slog"

	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/internal/platform/validate"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// # Contracts & Types

// SessionResolver resolves the user behind an opaque session id.
// Implemented by the session service.
type SessionResolver interface {
	GetUser(context context.Context, sessionID string) (string, error)
}

// # Service Layer

// Service orchestrates project lifecycle and is the authorization guard for
// the entire project-scoped web surface.
type Service struct {
	repo     Repository
	sessions SessionResolver
	logger   *slog.Logger
}

// NewService constructs a new project [Service].
func NewService(repo Repository, sessions SessionResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

// # Access Guard

/*
ResolveUser returns the user behind a session, or "" for anonymous sessions.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: User UUID or ""
  - error: Persistence failures
*/
func (service *Service) ResolveUser(context context.Context, sessionID string) (string, error) {
	return service.sessions.GetUser(context, sessionID)
}

/*
EnsureAccess authorizes a session against a project.

Description: The single choke point for every project-scoped web route.
An anonymous session, an unknown project, and a project owned by someone
else all produce the same 401 — the response never reveals whether the
project exists (anti-enumeration masking).

Parameters:
  - context: context.Context
  - sessionID: string
  - projectID: string

Returns:
  - string: User UUID of the authorized member
  - error: apperr.Unauthorized on any failure, or persistence errors
*/
func (service *Service) EnsureAccess(context context.Context, sessionID, projectID string) (string, error) {
	userID, err := service.sessions.GetUser(context, sessionID)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}

	member, err := service.repo.IsMember(context, projectID, userID)
	if err != nil {
		return "", err
	}
	if !member {
		// Masked: non-members cannot distinguish "no such project" from
		// "not yours".
		return "", apperr.Unauthorized("Unauthorized")
	}

	return userID, nil
}

// requireUser resolves the session to a user or fails with 401.
func (service *Service) requireUser(context context.Context, sessionID string) (string, error) {
	userID, err := service.sessions.GetUser(context, sessionID)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}
	return userID, nil
}

// # Project Management

// Input holds the mutable project fields accepted from clients.
type Input struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

/*
List retrieves a paginated list of the caller's projects.

Parameters:
  - context: context.Context
  - sessionID: string
  - limit, offset: int

Returns:
  - []*Project: Projects the user is a member of
  - int: Total matching count
  - error: Unauthorized for anonymous sessions, or retrieval errors
*/
func (service *Service) List(context context.Context, sessionID string, limit, offset int) ([]*Project, int, error) {
	userID, err := service.requireUser(context, sessionID)
	if err != nil {
		return nil, 0, err
	}

	return service.repo.ListForUser(context, userID, limit, offset)
}

/*
Create initialises a new project and enrolls the creator as a member.

Parameters:
  - context: context.Context
  - sessionID: string
  - input: Input

Returns:
  - *Project: Created entity
  - error: Unauthorized, validation, or persistence failures
*/
func (service *Service) Create(context context.Context, sessionID string, input Input) (*Project, error) {
	userID, err := service.requireUser(context, sessionID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Project{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Description: input.Description,
	}

	if err := service.repo.Create(context, record, userID); err != nil {
		return nil, err
	}

	service.logger.Info("project_created",
		slog.String("project_id", record.ID),
		slog.String("user_id", userID),
	)

	return record, nil
}

/*
Get retrieves a single project owned by the caller.

Description: A membership-scoped lookup — a miss reads as "Project not
found" regardless of whether the project exists for someone else.

Parameters:
  - context: context.Context
  - sessionID: string
  - projectID: string

Returns:
  - *Project: Hydrated entity
  - error: Unauthorized (anonymous) or NotFound (scoped miss)
*/
func (service *Service) Get(context context.Context, sessionID, projectID string) (*Project, error) {
	userID, err := service.requireUser(context, sessionID)
	if err != nil {
		return nil, err
	}

	record, err := service.repo.FindForUser(context, projectID, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Project")
		}
		return nil, err
	}

	return record, nil
}

/*
Update modifies a project's name/description.

Parameters:
  - context: context.Context
  - sessionID: string
  - projectID: string
  - input: Input

Returns:
  - *Project: Updated entity
  - error: Unauthorized, validation, NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, sessionID, projectID string, input Input) (*Project, error) {
	userID, err := service.requireUser(context, sessionID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Project{
		ID:          projectID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := service.repo.Update(context, record, userID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Project")
		}
		return nil, err
	}

	service.logger.Info("project_updated", slog.String("project_id", projectID))

	return service.repo.FindForUser(context, projectID, userID)
}

/*
Delete removes a project and (via cascade) everything under it.

Parameters:
  - context: context.Context
  - sessionID: string
  - projectID: string

Returns:
  - error: Unauthorized, NotFound, or persistence failures
*/
func (service *Service) Delete(context context.Context, sessionID, projectID string) error {
	userID, err := service.requireUser(context, sessionID)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, projectID, userID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Project")
		}
		return err
	}

	service.logger.Info("project_deleted",
		slog.String("project_id", projectID),
		slog.String("user_id", userID),
	)

	return nil
}

// # CLI Surface

/*
GetByID retrieves a project for a key-authenticated CLI caller.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - *Project: Hydrated entity
  - error: NotFound or persistence failures
*/
func (service *Service) GetByID(context context.Context, projectID string) (*Project, error) {
	record, err := service.repo.FindByID(context, projectID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Project")
		}
		return nil, err
	}
	return record, nil
}

/*
UpdateByID modifies a project for a key-authenticated CLI caller.

Parameters:
  - context: context.Context
  - projectID: string
  - input: Input

Returns:
  - *Project: Updated entity
  - error: Validation, NotFound, or persistence failures
*/
func (service *Service) UpdateByID(context context.Context, projectID string, input Input) (*Project, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Project{
		ID:          projectID,
		Name:        input.Name,
		Description: input.Description,
	}

	if err := service.repo.UpdateByID(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Project")
		}
		return nil, err
	}

	return service.repo.FindByID(context, projectID)
}

// # Requirement Templates

/*
ListRequirements returns the project's requirement templates.

The caller must have passed [Service.EnsureAccess] (web) or key validation
(CLI) for this project already.
*/
func (service *Service) ListRequirements(context context.Context, projectID string) ([]*Requirement, error) {
	return service.repo.ListRequirements(context, projectID)
}

/*
CreateRequirement adds a requirement template to the project.
*/
func (service *Service) CreateRequirement(context context.Context, projectID, name string) (*Requirement, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Requirement{
		ID:        uuidv7.New(),
		ProjectID: projectID,
		Name:      name,
	}

	if err := service.repo.CreateRequirement(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

/*
UpdateRequirement renames a template; a template from another project reads
as not found.
*/
func (service *Service) UpdateRequirement(context context.Context, projectID, requirementID, name string) (*Requirement, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 500)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Requirement{
		ID:        requirementID,
		ProjectID: projectID,
		Name:      name,
	}

	if err := service.repo.UpdateRequirement(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Requirement")
		}
		return nil, err
	}

	return record, nil
}

/*
DeleteRequirement removes a template, scoped by project.
*/
func (service *Service) DeleteRequirement(context context.Context, projectID, requirementID string) error {
	if err := service.repo.DeleteRequirement(context, projectID, requirementID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Requirement")
		}
		return err
	}
	return nil
}

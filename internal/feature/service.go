// Copyright (c) 2026 SMRT Labs. All rights reserved.

package feature

import (
	"context"
	"errors"
	"log/slog"

	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/internal/platform/validate"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates feature and feature-requirement lifecycle within a
// project. Authorization happens upstream.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new feature [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Input holds the mutable feature fields accepted from clients. An empty
// status means "leave the default" on create.
type Input struct {
	Name    string  `json:"name"`
	Message *string `json:"message,omitempty"`
	Status  string  `json:"status,omitempty"`
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if input.Message != nil {
		validator.MaxLen(FieldMessage, *input.Message, 2000)
	}
	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, Statuses...)
	}
	return validator.Err()
}

// # Feature Management

/*
List returns the project's features.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - []*Feature: All features under the project
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, projectID string) ([]*Feature, error) {
	return service.repo.List(context, projectID)
}

/*
Get retrieves a single feature scoped by project.

Returns NotFound for a feature belonging to another project.
*/
func (service *Service) Get(context context.Context, projectID, featureID string) (*Feature, error) {
	record, err := service.repo.Find(context, projectID, featureID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Feature")
		}
		return nil, err
	}
	return record, nil
}

/*
Create adds a feature to the project. New features default to open unless the
caller names another valid status.

Parameters:
  - context: context.Context
  - projectID: string
  - input: Input

Returns:
  - *Feature: Created entity
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, projectID string, input Input) (*Feature, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusOpen
	}

	record := &Feature{
		ID:        uuidv7.New(),
		ProjectID: projectID,
		Name:      input.Name,
		Message:   input.Message,
		Status:    status,
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("feature_created",
		slog.String("feature_id", record.ID),
		slog.String("project_id", projectID),
		slog.String("status", status),
	)

	return record, nil
}

/*
Update modifies a feature; a feature from another project reads as not found.

Parameters:
  - context: context.Context
  - projectID: string
  - featureID: string
  - input: Input

Returns:
  - *Feature: Updated entity
  - error: Validation, NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, projectID, featureID string, input Input) (*Feature, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// PATCH semantics on status: an omitted status keeps the stored one.
	existing, err := service.Get(context, projectID, featureID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = existing.Status
	}

	record := &Feature{
		ID:        featureID,
		ProjectID: projectID,
		Name:      input.Name,
		Message:   input.Message,
		Status:    status,
	}

	if err := service.repo.Update(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Feature")
		}
		return nil, err
	}

	return record, nil
}

/*
Delete removes a feature and (via cascade) its requirements, scoped by
project.
*/
func (service *Service) Delete(context context.Context, projectID, featureID string) error {
	if err := service.repo.Delete(context, projectID, featureID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Feature")
		}
		return err
	}

	service.logger.Info("feature_deleted",
		slog.String("feature_id", featureID),
		slog.String("project_id", projectID),
	)

	return nil
}

// # Feature Requirements

/*
ListRequirements returns a feature's requirements. The feature must belong to
the project, otherwise NotFound.
*/
func (service *Service) ListRequirements(context context.Context, projectID, featureID string) ([]*Requirement, error) {
	// Verify the feature is in scope first so a foreign feature id reads as
	// not found instead of an empty list.
	if _, err := service.Get(context, projectID, featureID); err != nil {
		return nil, err
	}

	return service.repo.ListRequirements(context, projectID, featureID)
}

// RequirementInput holds the mutable requirement fields accepted from
// clients. An empty status means "default" on create and "keep" on update.
type RequirementInput struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

func (input RequirementInput) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 500)
	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, Statuses...)
	}
	return validator.Err()
}

/*
CreateRequirement adds a requirement to a feature, scoped by project. New
requirements default to open.
*/
func (service *Service) CreateRequirement(context context.Context, projectID, featureID string, input RequirementInput) (*Requirement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := service.Get(context, projectID, featureID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusOpen
	}

	record := &Requirement{
		ID:        uuidv7.New(),
		FeatureID: featureID,
		ProjectID: projectID,
		Name:      input.Name,
		Status:    status,
	}

	if err := service.repo.CreateRequirement(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

/*
UpdateRequirement modifies a requirement; an omitted status keeps the stored
one, and a requirement outside the feature/project scope reads as not found.
*/
func (service *Service) UpdateRequirement(context context.Context, projectID, featureID, requirementID string, input RequirementInput) (*Requirement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	record := &Requirement{
		ID:        requirementID,
		FeatureID: featureID,
		ProjectID: projectID,
		Name:      input.Name,
		Status:    input.Status,
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
DeleteRequirement removes a requirement, scoped by feature AND project.
*/
func (service *Service) DeleteRequirement(context context.Context, projectID, featureID, requirementID string) error {
	if err := service.repo.DeleteRequirement(context, projectID, featureID, requirementID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Requirement")
		}
		return err
	}
	return nil
}

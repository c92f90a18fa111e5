// Copyright (c) 2026 SMRT Labs. All rights reserved.

package condition

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

// Service orchestrates condition lifecycle within a project. Authorization
// happens upstream: web handlers pass the access guard and CLI handlers pass
// key validation before any call lands here.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new condition [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Input holds the mutable condition fields accepted from clients.
type Input struct {
	Name    string  `json:"name"`
	Message *string `json:"message,omitempty"`
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	if input.Message != nil {
		validator.MaxLen(FieldMessage, *input.Message, 2000)
	}
	return validator.Err()
}

/*
List returns the project's conditions.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - []*Condition: All conditions under the project
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, projectID string) ([]*Condition, error) {
	return service.repo.List(context, projectID)
}

/*
Create adds a condition to the project.

Parameters:
  - context: context.Context
  - projectID: string
  - input: Input

Returns:
  - *Condition: Created entity
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, projectID string, input Input) (*Condition, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	record := &Condition{
		ID:        uuidv7.New(),
		ProjectID: projectID,
		Name:      input.Name,
		Message:   input.Message,
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("condition_created",
		slog.String("condition_id", record.ID),
		slog.String("project_id", projectID),
	)

	return record, nil
}

/*
Update modifies a condition; a condition from another project reads as not
found.

Parameters:
  - context: context.Context
  - projectID: string
  - conditionID: string
  - input: Input

Returns:
  - *Condition: Updated entity
  - error: Validation, NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, projectID, conditionID string, input Input) (*Condition, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	record := &Condition{
		ID:        conditionID,
		ProjectID: projectID,
		Name:      input.Name,
		Message:   input.Message,
	}

	if err := service.repo.Update(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Condition")
		}
		return nil, err
	}

	return record, nil
}

/*
Delete removes a condition, scoped by project.

Parameters:
  - context: context.Context
  - projectID: string
  - conditionID: string

Returns:
  - error: NotFound or persistence failures
*/
func (service *Service) Delete(context context.Context, projectID, conditionID string) error {
	if err := service.repo.Delete(context, projectID, conditionID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Condition")
		}
		return err
	}

	service.logger.Info("condition_deleted",
		slog.String("condition_id", conditionID),
		slog.String("project_id", projectID),
	)

	return nil
}

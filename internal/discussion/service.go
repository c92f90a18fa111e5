// Copyright (c) 2026 SMRT Labs. All rights reserved.

package discussion

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

// Service orchestrates discussion and message lifecycle within a project.
// Authorization happens upstream; callers supply the author attribution for
// new messages because only they know which identity posted (web user or
// CLI key).
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new discussion [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Discussion Management

/*
List returns the project's discussions.
*/
func (service *Service) List(context context.Context, projectID string) ([]*Discussion, error) {
	return service.repo.List(context, projectID)
}

/*
Get retrieves a single discussion scoped by project.
*/
func (service *Service) Get(context context.Context, projectID, discussionID string) (*Discussion, error) {
	record, err := service.repo.Find(context, projectID, discussionID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Discussion")
		}
		return nil, err
	}
	return record, nil
}

/*
Create opens a new discussion under the project.

Parameters:
  - context: context.Context
  - projectID: string
  - name: string

Returns:
  - *Discussion: Created entity
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, projectID, name string) (*Discussion, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Discussion{
		ID:        uuidv7.New(),
		ProjectID: projectID,
		Name:      name,
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("discussion_created",
		slog.String("discussion_id", record.ID),
		slog.String("project_id", projectID),
	)

	return record, nil
}

/*
Update renames a discussion; a discussion from another project reads as not
found.
*/
func (service *Service) Update(context context.Context, projectID, discussionID, name string) (*Discussion, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Discussion{
		ID:        discussionID,
		ProjectID: projectID,
		Name:      name,
	}

	if err := service.repo.Update(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Discussion")
		}
		return nil, err
	}

	return service.Get(context, projectID, discussionID)
}

/*
Delete removes a discussion and (via cascade) its messages, scoped by
project.
*/
func (service *Service) Delete(context context.Context, projectID, discussionID string) error {
	if err := service.repo.Delete(context, projectID, discussionID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Discussion")
		}
		return err
	}

	service.logger.Info("discussion_deleted",
		slog.String("discussion_id", discussionID),
		slog.String("project_id", projectID),
	)

	return nil
}

// # Messages

/*
ListMessages returns a discussion's messages. The discussion must belong to
the project, otherwise NotFound.
*/
func (service *Service) ListMessages(context context.Context, projectID, discussionID string) ([]*Message, error) {
	// A foreign discussion id must read as not found, not as an empty thread.
	if _, err := service.Get(context, projectID, discussionID); err != nil {
		return nil, err
	}

	return service.repo.ListMessages(context, projectID, discussionID)
}

/*
PostMessage appends a message to a discussion.

Description: The author attribution is captured once at post time and never
changes, even if the underlying user or key is later renamed or deleted.

Parameters:
  - context: context.Context
  - projectID: string
  - discussionID: string
  - body: string
  - authorName: string

Returns:
  - *Message: Created entity
  - error: Validation, NotFound (foreign discussion), or persistence failures
*/
func (service *Service) PostMessage(context context.Context, projectID, discussionID, body, authorName string) (*Message, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body).MaxLen(FieldBody, body, 5000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.Get(context, projectID, discussionID); err != nil {
		return nil, err
	}

	record := &Message{
		ID:           uuidv7.New(),
		DiscussionID: discussionID,
		ProjectID:    projectID,
		Body:         body,
		AuthorName:   authorName,
	}

	if err := service.repo.CreateMessage(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("discussion_message_posted",
		slog.String("message_id", record.ID),
		slog.String("discussion_id", discussionID),
		slog.String("project_id", projectID),
	)

	return record, nil
}

/*
UpdateMessage rewrites a message body; the author attribution is immutable.
A message outside the discussion/project scope reads as not found.
*/
func (service *Service) UpdateMessage(context context.Context, projectID, discussionID, messageID, body string) (*Message, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body).MaxLen(FieldBody, body, 5000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record := &Message{
		ID:           messageID,
		DiscussionID: discussionID,
		ProjectID:    projectID,
		Body:         body,
	}

	if err := service.repo.UpdateMessage(context, record); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Message")
		}
		return nil, err
	}

	return record, nil
}

/*
DeleteMessage removes a message, scoped by discussion AND project.
*/
func (service *Service) DeleteMessage(context context.Context, projectID, discussionID, messageID string) error {
	if err := service.repo.DeleteMessage(context, projectID, discussionID, messageID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Message")
		}
		return err
	}
	return nil
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package key

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/internal/platform/sec"
	"github.com/smrtlabs/smrt/internal/platform/validate"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// # Service Layer

// Service manages API keys and is the authentication authority for the CLI
// surface.
//
// # Review Process
//
// This service is critical for security. Any changes to secret generation,
// hashing, or the validation ordering must be reviewed carefully.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new key [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Key Management

/*
List returns the project's keys. Secret material never appears in the
response: hashes are excluded from serialization and raw secrets were never
stored.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - []*Key: All keys under the project
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, projectID string) ([]*Key, error) {
	return service.repo.List(context, projectID)
}

/*
Create mints a new API key for the project.

Description: Generates a fresh secret, stores only its hash, and returns the
raw value under "token". This is the only time the raw secret is ever
visible — there is no recovery path, only deletion and re-creation.

Parameters:
  - context: context.Context
  - projectID: string
  - name: string

Returns:
  - *Created: Persisted key plus the one-time raw secret
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, projectID, name string) (*Created, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	rawSecret, err := sec.GenerateAPISecret()
	if err != nil {
		return nil, fmt.Errorf("key_service_generate_failed: %w", err)
	}

	record := &Key{
		ID:         uuidv7.New(),
		ProjectID:  projectID,
		Name:       name,
		SecretHash: sec.HashAPISecret(rawSecret),
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("api_key_created",
		slog.String("key_id", record.ID),
		slog.String("project_id", projectID),
	)

	return &Created{Key: record, Token: rawSecret}, nil
}

/*
Delete revokes a key, scoped by project.

Parameters:
  - context: context.Context
  - projectID: string
  - keyID: string

Returns:
  - error: NotFound or persistence failures
*/
func (service *Service) Delete(context context.Context, projectID, keyID string) error {
	if err := service.repo.Delete(context, projectID, keyID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Key")
		}
		return err
	}

	service.logger.Info("api_key_deleted",
		slog.String("key_id", keyID),
		slog.String("project_id", projectID),
	)

	return nil
}

// # CLI Authentication

/*
Validate authenticates a CLI request against a project-scoped key.

Description: The check order is part of the contract:

 1. Missing secret → 401 before any lookup.
 2. Unknown (projectID, keyID) pair → 404. A real key id under the wrong
    project misses identically to a fabricated one.
 3. Hash mismatch → 401, compared in constant time.
 4. Success → the key record; its name attributes CLI-authored messages.

Parameters:
  - context: context.Context
  - projectID: string
  - keyID: string
  - rawSecret: string

Returns:
  - *Key: The validated key
  - error: Unauthorized or NotFound per the ordering above
*/
func (service *Service) Validate(context context.Context, projectID, keyID, rawSecret string) (*Key, error) {
	if rawSecret == "" {
		return nil, apperr.Unauthorized("Missing x-cli-secret header")
	}

	record, err := service.repo.Find(context, projectID, keyID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Key")
		}
		return nil, err
	}

	if !sec.CheckAPISecretHash(rawSecret, record.SecretHash) {
		service.logger.Warn("api_key_secret_mismatch",
			slog.String("key_id", keyID),
			slog.String("project_id", projectID),
		)
		return nil, apperr.Unauthorized("Invalid secret")
	}

	return record, nil
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package session

import (
	"context"
	"log/slog"
)

// # Service Layer

// Service orchestrates the session registry.
//
// It satisfies the middleware's SessionRegistry contract and backs the
// identity service's session linkage.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new session [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
Touch records a visit for the session, creating it on first sight.

Called exactly once per inbound web request, before any route logic.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures (the request must fail with 500)
*/
func (service *Service) Touch(context context.Context, sessionID string) error {
	return service.repo.Touch(context, sessionID)
}

/*
Get retrieves the session row for the info endpoint.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated session (visits >= 1)
  - error: ErrNotFound or persistence failures
*/
func (service *Service) Get(context context.Context, sessionID string) (*Session, error) {
	return service.repo.Find(context, sessionID)
}

/*
LinkUser associates a session with an authenticated user (login).

Parameters:
  - context: context.Context
  - sessionID: string
  - userID: string (UUID)

Returns:
  - error: Persistence failures
*/
func (service *Service) LinkUser(context context.Context, sessionID, userID string) error {
	if err := service.repo.LinkUser(context, sessionID, &userID); err != nil {
		return err
	}

	service.logger.Info("session_user_linked",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
	)

	return nil
}

/*
UnlinkUser clears the user association (logout). The session row and its
visit history are retained.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) UnlinkUser(context context.Context, sessionID string) error {
	if err := service.repo.LinkUser(context, sessionID, nil); err != nil {
		return err
	}

	service.logger.Info("session_user_unlinked", slog.String("session_id", sessionID))

	return nil
}

/*
GetUser resolves the user currently behind a session.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: User UUID, or "" for anonymous sessions
  - error: Persistence failures
*/
func (service *Service) GetUser(context context.Context, sessionID string) (string, error) {
	return service.repo.GetUser(context, sessionID)
}

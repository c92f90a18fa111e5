// Copyright (c) 2026 SMRT Labs. All rights reserved.

package identity

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

// # Contracts & Types

// SessionLinker associates the caller's anonymous session with a user.
// Implemented by the session service.
type SessionLinker interface {
	// LinkUser links the session to the given user (login / auto-login).
	LinkUser(context context.Context, sessionID, userID string) error

	// UnlinkUser clears the session's user link (logout).
	UnlinkUser(context context.Context, sessionID string) error
}

// loginFailedMessage is returned for both unknown-user and wrong-password
// failures. The two cases must stay indistinguishable to the client.
const loginFailedMessage = "Invalid email or password"

// Service implements the user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	users    UserRepository
	attempts AttemptRepository
	sessions SessionLinker
	logger   *slog.Logger
}

// NewService constructs a new identity [Service].
func NewService(users UserRepository, attempts AttemptRepository, sessions SessionLinker, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		attempts: attempts,
		sessions: sessions,
		logger:   logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

/*
Register validates, hashes, and persists a brand new user account.

Description: On success the caller's session is linked to the new user
(auto-login), so registration immediately yields an authenticated browser.

Parameters:
  - context: context.Context
  - sessionID: string (Caller's session, for auto-login)
  - input: RegisterInput

Returns:
  - *User: Created entity (hash never serialized)
  - error: ValidationError, Conflict (duplicate email), or storage errors
*/
func (service *Service) Register(context context.Context, sessionID string, input RegisterInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	if input.Password != "" {
		validator.MinLen(FieldPassword, input.Password, 6)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict error.
	// The unique index still backstops the check against a concurrent insert.
	switch _, err := service.users.FindByEmail(context, input.Email); {
	case err == nil:
		return nil, apperr.Conflict("Email is already registered")
	case !errors.Is(err, dberr.ErrNotFound):
		return nil, fmt.Errorf("identity_service_email_check_failed: %w", err)
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	// Auto-login: link the caller's session to the fresh account
	if err := service.sessions.LinkUser(context, sessionID, user.ID); err != nil {
		return nil, fmt.Errorf("identity_service_autologin_failed: %w", err)
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Login validates credentials and links the session to the user.

Description: Both "no such user" and "wrong password" yield the identical
generic 401 to prevent account enumeration. Failed attempts are counted in
Redis per email; once the window limit is reached the endpoint returns 429
until the counter expires.

Parameters:
  - context: context.Context
  - sessionID: string
  - input: LoginInput

Returns:
  - *User: Authenticated user
  - error: ValidationError, Unauthorized (generic), RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, sessionID string, input LoginInput) (*User, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Throttle gate before touching the credential store
	failures, err := service.attempts.Count(context, input.Email)
	if err != nil {
		return nil, fmt.Errorf("identity_service_throttle_check_failed: %w", err)
	}
	if failures >= ThrottleMaxAttempts {
		service.logger.Warn("login_throttled", slog.String("session_id", sessionID))
		return nil, apperr.RateLimited(int(ThrottleWindow.Seconds()))
	}

	// Look up the account. Generic message to prevent enumeration. Only a
	// confirmed miss counts as a credential failure; infrastructure errors
	// must not pollute the throttle counter.
	user, err := service.users.FindByEmail(context, input.Email)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, service.recordFailure(context, input.Email)
		}
		return nil, fmt.Errorf("identity_service_user_lookup_failed: %w", err)
	}

	// Constant-time scrypt verification to avoid timing side channels
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.recordFailure(context, input.Email)
	}

	// Success: clear the failure counter and link the session
	if err := service.attempts.Reset(context, input.Email); err != nil {
		return nil, fmt.Errorf("identity_service_throttle_reset_failed: %w", err)
	}

	if err := service.sessions.LinkUser(context, sessionID, user.ID); err != nil {
		return nil, fmt.Errorf("identity_service_login_link_failed: %w", err)
	}

	service.logger.Info("user_logged_in",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

/*
Logout unlinks the user from the caller's session.

Description: The session row and its visit history are retained; only the
user association is cleared. Logging out an anonymous session is a no-op.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := service.sessions.UnlinkUser(context, sessionID); err != nil {
		return fmt.Errorf("identity_service_logout_failed: %w", err)
	}

	return nil
}

/*
AuthorName resolves a user's display name for message attribution.

Description: Prefers the optional profile name, falls back to the email
address. Used by the discussion surface when a web user posts a message.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Display name
  - error: NotFound or persistence failures
*/
func (service *Service) AuthorName(context context.Context, userID string) (string, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return "", apperr.NotFound("User")
		}
		return "", err
	}

	if user.Name != nil && *user.Name != "" {
		return *user.Name, nil
	}
	return user.Email, nil
}

// recordFailure bumps the throttle counter and returns the generic 401.
func (service *Service) recordFailure(context context.Context, email string) error {
	if _, err := service.attempts.Increment(context, email); err != nil {
		return fmt.Errorf("identity_service_throttle_incr_failed: %w", err)
	}
	return apperr.Unauthorized(loginFailedMessage)
}

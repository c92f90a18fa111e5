// Copyright (c) 2026 SMRT Labs. All rights reserved.

package session

import "context"

// # Session Data Access

// Repository defines the data access contract for the session registry.
type Repository interface {

	/*
		Touch records a visit for the session.

		Description: Must be a single atomic upsert — the row is created with
		visits=1 on first sight and incremented on every later call. Concurrent
		first requests from the same client must never surface a unique
		constraint violation.

		Parameters:
		  - context: context.Context
		  - sessionID: string (Opaque cookie value, UUID)

		Returns:
		  - error: Persistence failures
	*/
	Touch(context context.Context, sessionID string) error

	/*
		Find retrieves a session row by its identifier.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *Session: Hydrated entity
		  - error: ErrNotFound if the registry has never seen this id
	*/
	Find(context context.Context, sessionID string) (*Session, error)

	/*
		LinkUser sets or clears the user associated with a session.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - userID: *string (nil clears the link on logout)

		Returns:
		  - error: Persistence failures
	*/
	LinkUser(context context.Context, sessionID string, userID *string) error

	/*
		GetUser resolves the user currently linked to a session.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - string: User UUID, or "" when the session is anonymous or unknown
		  - error: Persistence failures
	*/
	GetUser(context context.Context, sessionID string) (string, error)
}

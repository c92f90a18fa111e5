// Copyright (c) 2026 SMRT Labs. All rights reserved.

package identity

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a new user with its password hash.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByEmail retrieves a user by their unique email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity including the password hash
		  - error: ErrNotFound if no account exists for the email
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByID retrieves a user by their UUID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*User, error)
}

// # Login Throttling

// AttemptRepository tracks failed login attempts per email in a volatile
// store with automatic expiry.
type AttemptRepository interface {

	/*
		Count returns the current failure count for an email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - int: Failures within the active window (0 when none)
		  - error: Connectivity failures
	*/
	Count(context context.Context, email string) (int, error)

	/*
		Increment bumps the failure counter, starting the expiry window on
		the first failure.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - int: The new counter value
		  - error: Connectivity failures
	*/
	Increment(context context.Context, email string) (int, error)

	/*
		Reset clears the failure counter after a successful login.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - error: Connectivity failures
	*/
	Reset(context context.Context, email string) error
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

/*
Package identity implements user registration and session-based authentication.

It handles account enrollment, email/password verification against scrypt
hashes, and the login/logout linkage between a user and the anonymous session
carried by the browser cookie.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis
    (login-attempt throttle counters).
  - Security: scrypt password hashing with per-user salts; a single generic
    401 message for both unknown-user and wrong-password failures.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package identity

import "time"

// # Throttle Policy

const (
	// ThrottleMaxAttempts is the number of failed logins per email before
	// further attempts are rejected.
	ThrottleMaxAttempts = 10

	// ThrottleWindow is how long failure counters live in Redis.
	ThrottleWindow = 15 * time.Minute
)

// # Core Entities

// User represents a registered account.
//
// PasswordHash is stored as "<saltHex>:<derivedKeyHex>" and never serialized
// into API responses.
type User struct {
	ID           string    `json:"id"` // UUIDv7
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

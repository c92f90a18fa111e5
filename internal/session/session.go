// Copyright (c) 2026 SMRT Labs. All rights reserved.

/*
Package session implements the anonymous session registry.

Every request on the web surface is keyed by an opaque cookie value. The
registry tracks a visit counter per session and the optional link to an
authenticated user, which the rest of the web surface uses as its identity
source.

# Core Responsibility

  - Registry: Defines the [Session] entity and its visit counter.
  - Linkage: Associates a session with a user on login and clears it on logout.
  - Identity: Resolves the user behind a session id for authorization checks.

Sessions are never deleted; logout only clears the user link so the visit
history is retained.
*/
package session

import "time"

// # Core Entities

// Session is a server-side record keyed by the opaque cookie value.
type Session struct {
	SessionID string    `json:"sessionId"` // UUID minted by the middleware
	Visits    int       `json:"visits"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldSessionID = "sessionId"
	FieldVisits    = "visits"
	FieldUserID    = "userId"
)

// Copyright (c) 2026 SMRT Labs. All rights reserved.

/*
Package project manages the root multi-tenant aggregate and its access guard.

A project owns every other resource in the system (conditions, features,
requirements, discussions, keys); access on the web surface is governed by a
many-to-many membership between users and projects.

# Core Responsibility

  - Aggregate: Defines the [Project] entity and its template [Requirement]s.
  - Membership: Manages the user-project association created at project birth.
  - Guard: [Service.EnsureAccess] is the single authorization choke point for
    every project-scoped web route.

Deleting a project cascades to all sub-resources at the database level.
*/
package project

import "time"

// # Core Entities

// Project is the root aggregate. All sub-resources hang off it.
type Project struct {
	ID          string    `json:"id"` // UUIDv7
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Requirement is a project-level requirement template.
//
// Distinct from the feature-scoped requirement entity despite the similar
// shape: templates belong directly to the project.
type Requirement struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
)

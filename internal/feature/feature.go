// Copyright (c) 2026 SMRT Labs. All rights reserved.

package feature

import "time"

// Feature statuses. New features start as open.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Statuses enumerates the accepted status values, used by validation.
var Statuses = []string{StatusOpen, StatusInProgress, StatusDone}

// Feature is a unit of planned work under a project.
type Feature struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Message   *string   `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Requirement is an acceptance criterion attached to a single feature. It is
// scoped by both feature and project so a requirement can never be reached
// through a foreign project's key or session.
type Requirement struct {
	ID        string    `json:"id"`
	FeatureID string    `json:"featureId"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validated field names.
const (
	FieldName    = "name"
	FieldMessage = "message"
	FieldStatus  = "status"
)

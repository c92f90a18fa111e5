// Copyright (c) 2026 SMRT Labs. All rights reserved.

package condition

import "time"

// Condition is a named constraint attached to a project, with an optional
// free-form message elaborating on it.
type Condition struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validated field names.
const (
	FieldName    = "name"
	FieldMessage = "message"
)

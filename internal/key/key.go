// Copyright (c) 2026 SMRT Labs. All rights reserved.

package key

import "time"

// Key is a project-scoped API credential for machine clients. The raw secret
// is returned exactly once at creation; only its hash is stored, and the
// hash never leaves this package.
type Key struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Created is the response shape for key creation: the persisted record plus
// the raw secret, surfaced under "token" for the CLI to store.
type Created struct {
	*Key
	Token string `json:"token"`
}

// Validated field names.
const (
	FieldName = "name"
)

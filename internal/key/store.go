// Copyright (c) 2026 SMRT Labs. All rights reserved.

package key

import "context"

// # Key Data Access

// Repository defines the data access contract for API keys.
type Repository interface {

	/*
		List returns the project's keys, oldest first. Secret hashes ride
		along internally but are never serialized.

		Parameters:
		  - context: context.Context
		  - projectID: string

		Returns:
		  - []*Key: All keys under the project
		  - error: Database retrieval failures
	*/
	List(context context.Context, projectID string) ([]*Key, error)

	/*
		Find retrieves a key by id scoped to a project.

		Description: The (projectID, keyID) pair is the CLI lookup: a valid
		key id paired with the wrong project id misses.

		Returns ErrNotFound on a scoped miss.
	*/
	Find(context context.Context, projectID, keyID string) (*Key, error)

	/*
		Create persists a new key with its secret hash.
	*/
	Create(context context.Context, key *Key) error

	/*
		Delete removes a key, scoped by project id. Any CLI client holding
		the raw secret is cut off immediately.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Delete(context context.Context, projectID, keyID string) error
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package condition

import "context"

// # Condition Data Access

// Repository defines the data access contract for project conditions.
type Repository interface {

	/*
		List returns the project's conditions, oldest first.

		Parameters:
		  - context: context.Context
		  - projectID: string

		Returns:
		  - []*Condition: All conditions under the project
		  - error: Database retrieval failures
	*/
	List(context context.Context, projectID string) ([]*Condition, error)

	/*
		Create persists a new condition under its project.

		Parameters:
		  - context: context.Context
		  - condition: *Condition

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, condition *Condition) error

	/*
		Update modifies a condition, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Update(context context.Context, condition *Condition) error

	/*
		Delete removes a condition, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Delete(context context.Context, projectID, conditionID string) error
}

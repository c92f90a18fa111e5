// Copyright (c) 2026 SMRT Labs. All rights reserved.

package feature

import "context"

// # Feature Data Access

// Repository defines the data access contract for features and their
// requirements.
type Repository interface {

	/*
		List returns the project's features, oldest first.

		Parameters:
		  - context: context.Context
		  - projectID: string

		Returns:
		  - []*Feature: All features under the project
		  - error: Database retrieval failures
	*/
	List(context context.Context, projectID string) ([]*Feature, error)

	/*
		Find retrieves a feature scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Find(context context.Context, projectID, featureID string) (*Feature, error)

	/*
		Create persists a new feature under its project.
	*/
	Create(context context.Context, feature *Feature) error

	/*
		Update modifies a feature, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Update(context context.Context, feature *Feature) error

	/*
		Delete removes a feature, scoped by project id. The database cascades
		the delete to the feature's requirements.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Delete(context context.Context, projectID, featureID string) error

	// # Feature Requirements

	/*
		ListRequirements returns a feature's requirements, scoped by project.
	*/
	ListRequirements(context context.Context, projectID, featureID string) ([]*Requirement, error)

	/*
		CreateRequirement persists a new requirement under its feature.
	*/
	CreateRequirement(context context.Context, requirement *Requirement) error

	/*
		UpdateRequirement modifies a requirement, scoped by feature AND
		project. An empty Status keeps the stored value; the effective
		status is hydrated back into the record.

		Returns ErrNotFound when the row does not belong to both.
	*/
	UpdateRequirement(context context.Context, requirement *Requirement) error

	/*
		DeleteRequirement removes a requirement, scoped by feature AND project.

		Returns ErrNotFound when the row does not belong to both.
	*/
	DeleteRequirement(context context.Context, projectID, featureID, requirementID string) error
}

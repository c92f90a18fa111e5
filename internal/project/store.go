// Copyright (c) 2026 SMRT Labs. All rights reserved.

package project

import "context"

// # Project Data Access

// Repository defines the data access contract for projects, memberships,
// and project-level requirement templates.
type Repository interface {

	/*
		ListForUser returns a paginated slice of the user's projects and the
		total count.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Project: Projects the user is a member of
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	ListForUser(context context.Context, userID string, limit, offset int) ([]*Project, int, error)

	/*
		FindForUser retrieves a project scoped by membership.

		Parameters:
		  - context: context.Context
		  - projectID: string
		  - userID: string

		Returns:
		  - *Project: Hydrated entity
		  - error: ErrNotFound when the project is missing OR the user is not
		    a member — the two cases are indistinguishable by design
	*/
	FindForUser(context context.Context, projectID, userID string) (*Project, error)

	/*
		FindByID retrieves a project by primary key (CLI surface: the caller
		has already been authenticated by a project-scoped key).

		Parameters:
		  - context: context.Context
		  - projectID: string

		Returns:
		  - *Project: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, projectID string) (*Project, error)

	/*
		Create persists a project and enrolls the creator as its first member
		in one transaction.

		Parameters:
		  - context: context.Context
		  - project: *Project
		  - ownerID: string

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, project *Project, ownerID string) error

	/*
		Update modifies name/description, scoped by membership.

		Parameters:
		  - context: context.Context
		  - project: *Project
		  - userID: string

		Returns:
		  - error: ErrNotFound when no membership-scoped row matched
	*/
	Update(context context.Context, project *Project, userID string) error

	/*
		UpdateByID modifies name/description without a membership scope
		(CLI surface).

		Parameters:
		  - context: context.Context
		  - project: *Project

		Returns:
		  - error: ErrNotFound if missing
	*/
	UpdateByID(context context.Context, project *Project) error

	/*
		Delete removes a project, scoped by membership. The database cascades
		the delete to every sub-resource.

		Parameters:
		  - context: context.Context
		  - projectID: string
		  - userID: string

		Returns:
		  - error: ErrNotFound when no membership-scoped row matched
	*/
	Delete(context context.Context, projectID, userID string) error

	/*
		IsMember reports whether the user belongs to the project.

		Parameters:
		  - context: context.Context
		  - projectID: string
		  - userID: string

		Returns:
		  - bool: Membership flag
		  - error: Database retrieval failures
	*/
	IsMember(context context.Context, projectID, userID string) (bool, error)

	// # Requirement Templates

	/*
		ListRequirements returns the project's requirement templates.
	*/
	ListRequirements(context context.Context, projectID string) ([]*Requirement, error)

	/*
		CreateRequirement persists a new template under the project.
	*/
	CreateRequirement(context context.Context, requirement *Requirement) error

	/*
		UpdateRequirement renames a template, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	UpdateRequirement(context context.Context, requirement *Requirement) error

	/*
		DeleteRequirement removes a template, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	DeleteRequirement(context context.Context, projectID, requirementID string) error
}

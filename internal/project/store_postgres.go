// Copyright (c) 2026 SMRT Labs. All rights reserved.

package project

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed project store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Project Retrieval

/*
ListForUser returns a paginated list of the user's projects.

Description: Joins through the membership table and uses COUNT(*) OVER()
for total metadata in a single round trip.

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
func (repository *PostgresRepository) ListForUser(context context.Context, userID string, limit, offset int) ([]*Project, int, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.createdat, p.updatedat,
			COUNT(*) OVER() as total
		FROM core.project p
		JOIN core.projectmember m ON m.projectid = p.id
		WHERE m.userid = $1
		ORDER BY p.createdat DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_projects")
	}
	defer rows.Close()

	var projects []*Project
	var total int
	for rows.Next() {
		record := &Project{}
		err := rows.Scan(&record.ID, &record.Name, &record.Description, &record.CreatedAt, &record.UpdatedAt, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_project")
		}
		projects = append(projects, record)
	}

	return projects, total, nil
}

/*
FindForUser retrieves a project scoped by membership.

Description: A missing project and a foreign project produce the same
ErrNotFound — the query cannot tell them apart, which is exactly the
anti-enumeration property the web surface relies on.

Parameters:
  - context: context.Context
  - projectID: string
  - userID: string

Returns:
  - *Project: Hydrated entity
  - error: ErrNotFound on scoped miss
*/
func (repository *PostgresRepository) FindForUser(context context.Context, projectID, userID string) (*Project, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.createdat, p.updatedat
		FROM core.project p
		JOIN core.projectmember m ON m.projectid = p.id
		WHERE p.id = $1 AND m.userid = $2
	`
	record := &Project{}
	err := repository.db.QueryRow(context, query, projectID, userID).Scan(
		&record.ID, &record.Name, &record.Description, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_project_for_user")
	}
	return record, nil
}

/*
FindByID retrieves a project by primary key (CLI surface).

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - *Project: Hydrated entity
  - error: ErrNotFound if missing
*/
func (repository *PostgresRepository) FindByID(context context.Context, projectID string) (*Project, error) {
	const query = `
		SELECT id, name, description, createdat, updatedat
		FROM core.project
		WHERE id = $1
	`
	record := &Project{}
	err := repository.db.QueryRow(context, query, projectID).Scan(
		&record.ID, &record.Name, &record.Description, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_project_by_id")
	}
	return record, nil
}

// # Project Mutation

/*
Create inserts the project and the creator's membership atomically.

Description: Both rows commit or neither does — a project without at least
one member would be unreachable on the web surface forever.

Parameters:
  - context: context.Context
  - project: *Project
  - ownerID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, project *Project, ownerID string) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_project_tx")
	}
	defer transaction.Rollback(context)

	const projectQuery = `
		INSERT INTO core.project (id, name, description, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err = transaction.QueryRow(context, projectQuery,
		project.ID, project.Name, project.Description,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_project")
	}

	const memberQuery = `
		INSERT INTO core.projectmember (projectid, userid, createdat)
		VALUES ($1, $2, NOW())
	`
	if _, err := transaction.Exec(context, memberQuery, project.ID, ownerID); err != nil {
		return dberr.Wrap(err, "create_project_membership")
	}

	return transaction.Commit(context)
}

/*
Update modifies name/description, scoped by membership.

Parameters:
  - context: context.Context
  - project: *Project
  - userID: string

Returns:
  - error: ErrNotFound when no membership-scoped row matched
*/
func (repository *PostgresRepository) Update(context context.Context, project *Project, userID string) error {
	const query = `
		UPDATE core.project p
		SET name = $3, description = $4, updatedat = NOW()
		FROM core.projectmember m
		WHERE p.id = $1 AND m.projectid = p.id AND m.userid = $2
	`
	result, err := repository.db.Exec(context, query, project.ID, userID, project.Name, project.Description)
	if err != nil {
		return dberr.Wrap(err, "update_project")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
UpdateByID modifies name/description without a membership scope (CLI surface).

Parameters:
  - context: context.Context
  - project: *Project

Returns:
  - error: ErrNotFound if missing
*/
func (repository *PostgresRepository) UpdateByID(context context.Context, project *Project) error {
	const query = `
		UPDATE core.project
		SET name = $2, description = $3, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat
	`
	err := repository.db.QueryRow(context, query, project.ID, project.Name, project.Description).Scan(&project.UpdatedAt)
	return dberr.Wrap(err, "update_project_by_id")
}

/*
Delete removes a project, scoped by membership.

Description: ON DELETE CASCADE removes every sub-resource (conditions,
features, requirements, discussions, messages, keys) with it.

Parameters:
  - context: context.Context
  - projectID: string
  - userID: string

Returns:
  - error: ErrNotFound when no membership-scoped row matched
*/
func (repository *PostgresRepository) Delete(context context.Context, projectID, userID string) error {
	const query = `
		DELETE FROM core.project p
		USING core.projectmember m
		WHERE p.id = $1 AND m.projectid = p.id AND m.userid = $2
	`
	result, err := repository.db.Exec(context, query, projectID, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_project")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

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
func (repository *PostgresRepository) IsMember(context context.Context, projectID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM core.projectmember
			WHERE projectid = $1 AND userid = $2
		)
	`
	var member bool
	if err := repository.db.QueryRow(context, query, projectID, userID).Scan(&member); err != nil {
		return false, dberr.Wrap(err, "check_project_membership")
	}
	return member, nil
}

// # Requirement Template Implementation

/*
ListRequirements returns the project's requirement templates, oldest first.
*/
func (repository *PostgresRepository) ListRequirements(context context.Context, projectID string) ([]*Requirement, error) {
	const query = `
		SELECT id, projectid, name, createdat, updatedat
		FROM core.projectrequirement
		WHERE projectid = $1
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_project_requirements")
	}
	defer rows.Close()

	var requirements []*Requirement
	for rows.Next() {
		record := &Requirement{}
		if err := rows.Scan(&record.ID, &record.ProjectID, &record.Name, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_project_requirement")
		}
		requirements = append(requirements, record)
	}

	return requirements, nil
}

/*
CreateRequirement inserts a new template row.
*/
func (repository *PostgresRepository) CreateRequirement(context context.Context, requirement *Requirement) error {
	const query = `
		INSERT INTO core.projectrequirement (id, projectid, name, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		requirement.ID, requirement.ProjectID, requirement.Name,
	).Scan(&requirement.CreatedAt, &requirement.UpdatedAt)

	return dberr.Wrap(err, "create_project_requirement")
}

/*
UpdateRequirement renames a template, scoped by project id.

Description: The project scope in the WHERE clause means a template id from
another project updates zero rows and reads as not found.
*/
func (repository *PostgresRepository) UpdateRequirement(context context.Context, requirement *Requirement) error {
	const query = `
		UPDATE core.projectrequirement
		SET name = $3, updatedat = NOW()
		WHERE id = $1 AND projectid = $2
	`
	result, err := repository.db.Exec(context, query, requirement.ID, requirement.ProjectID, requirement.Name)
	if err != nil {
		return dberr.Wrap(err, "update_project_requirement")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
DeleteRequirement removes a template, scoped by project id.
*/
func (repository *PostgresRepository) DeleteRequirement(context context.Context, projectID, requirementID string) error {
	const query = `DELETE FROM core.projectrequirement WHERE id = $1 AND projectid = $2`

	result, err := repository.db.Exec(context, query, requirementID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_project_requirement")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

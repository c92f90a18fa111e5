// Copyright (c) 2026 SMRT Labs. All rights reserved.

package condition

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed condition store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List returns all conditions under the project, oldest first.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - []*Condition: All conditions under the project
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, projectID string) ([]*Condition, error) {
	const query = `
		SELECT id, projectid, name, message, createdat, updatedat
		FROM core.condition
		WHERE projectid = $1
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_conditions")
	}
	defer rows.Close()

	var conditions []*Condition
	for rows.Next() {
		record := &Condition{}
		if err := rows.Scan(&record.ID, &record.ProjectID, &record.Name, &record.Message, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_condition")
		}
		conditions = append(conditions, record)
	}

	return conditions, nil
}

/*
Create inserts a new condition row.

Parameters:
  - context: context.Context
  - condition: *Condition

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, condition *Condition) error {
	const query = `
		INSERT INTO core.condition (id, projectid, name, message, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		condition.ID, condition.ProjectID, condition.Name, condition.Message,
	).Scan(&condition.CreatedAt, &condition.UpdatedAt)

	return dberr.Wrap(err, "create_condition")
}

/*
Update modifies a condition, scoped by project id.

Description: The project scope in the WHERE clause means a condition id from
another project updates zero rows and reads as not found.

Parameters:
  - context: context.Context
  - condition: *Condition

Returns:
  - error: ErrNotFound when no project-scoped row matched
*/
func (repository *PostgresRepository) Update(context context.Context, condition *Condition) error {
	const query = `
		UPDATE core.condition
		SET name = $3, message = $4, updatedat = NOW()
		WHERE id = $1 AND projectid = $2
	`
	result, err := repository.db.Exec(context, query, condition.ID, condition.ProjectID, condition.Name, condition.Message)
	if err != nil {
		return dberr.Wrap(err, "update_condition")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
Delete removes a condition, scoped by project id.

Parameters:
  - context: context.Context
  - projectID: string
  - conditionID: string

Returns:
  - error: ErrNotFound when no project-scoped row matched
*/
func (repository *PostgresRepository) Delete(context context.Context, projectID, conditionID string) error {
	const query = `DELETE FROM core.condition WHERE id = $1 AND projectid = $2`

	result, err := repository.db.Exec(context, query, conditionID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_condition")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

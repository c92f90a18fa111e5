// Copyright (c) 2026 SMRT Labs. All rights reserved.

package feature

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed feature store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Feature Retrieval

/*
List returns all features under the project, oldest first.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - []*Feature: All features under the project
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, projectID string) ([]*Feature, error) {
	const query = `
		SELECT id, projectid, name, message, status, createdat, updatedat
		FROM core.feature
		WHERE projectid = $1
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_features")
	}
	defer rows.Close()

	var features []*Feature
	for rows.Next() {
		record := &Feature{}
		if err := rows.Scan(&record.ID, &record.ProjectID, &record.Name, &record.Message, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_feature")
		}
		features = append(features, record)
	}

	return features, nil
}

/*
Find retrieves a feature scoped by project id.

Parameters:
  - context: context.Context
  - projectID: string
  - featureID: string

Returns:
  - *Feature: Hydrated entity
  - error: ErrNotFound on scoped miss
*/
func (repository *PostgresRepository) Find(context context.Context, projectID, featureID string) (*Feature, error) {
	const query = `
		SELECT id, projectid, name, message, status, createdat, updatedat
		FROM core.feature
		WHERE id = $1 AND projectid = $2
	`
	record := &Feature{}
	err := repository.db.QueryRow(context, query, featureID, projectID).Scan(
		&record.ID, &record.ProjectID, &record.Name, &record.Message, &record.Status, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_feature")
	}
	return record, nil
}

// # Feature Mutation

/*
Create inserts a new feature row.
*/
func (repository *PostgresRepository) Create(context context.Context, feature *Feature) error {
	const query = `
		INSERT INTO core.feature (id, projectid, name, message, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		feature.ID, feature.ProjectID, feature.Name, feature.Message, feature.Status,
	).Scan(&feature.CreatedAt, &feature.UpdatedAt)

	return dberr.Wrap(err, "create_feature")
}

/*
Update modifies a feature, scoped by project id.
*/
func (repository *PostgresRepository) Update(context context.Context, feature *Feature) error {
	const query = `
		UPDATE core.feature
		SET name = $3, message = $4, status = $5, updatedat = NOW()
		WHERE id = $1 AND projectid = $2
	`
	result, err := repository.db.Exec(context, query, feature.ID, feature.ProjectID, feature.Name, feature.Message, feature.Status)
	if err != nil {
		return dberr.Wrap(err, "update_feature")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
Delete removes a feature, scoped by project id. The feature's requirements go
with it via ON DELETE CASCADE.
*/
func (repository *PostgresRepository) Delete(context context.Context, projectID, featureID string) error {
	const query = `DELETE FROM core.feature WHERE id = $1 AND projectid = $2`

	result, err := repository.db.Exec(context, query, featureID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_feature")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Feature Requirement Implementation

/*
ListRequirements returns a feature's requirements, oldest first. The feature
itself is project-scoped through the WHERE clause, so a foreign feature id
yields an empty list rather than leaking rows.
*/
func (repository *PostgresRepository) ListRequirements(context context.Context, projectID, featureID string) ([]*Requirement, error) {
	const query = `
		SELECT id, featureid, projectid, name, status, createdat, updatedat
		FROM core.featurerequirement
		WHERE featureid = $1 AND projectid = $2
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, featureID, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_feature_requirements")
	}
	defer rows.Close()

	var requirements []*Requirement
	for rows.Next() {
		record := &Requirement{}
		if err := rows.Scan(&record.ID, &record.FeatureID, &record.ProjectID, &record.Name, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_feature_requirement")
		}
		requirements = append(requirements, record)
	}

	return requirements, nil
}

/*
CreateRequirement inserts a new requirement row.
*/
func (repository *PostgresRepository) CreateRequirement(context context.Context, requirement *Requirement) error {
	const query = `
		INSERT INTO core.featurerequirement (id, featureid, projectid, name, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		requirement.ID, requirement.FeatureID, requirement.ProjectID, requirement.Name, requirement.Status,
	).Scan(&requirement.CreatedAt, &requirement.UpdatedAt)

	return dberr.Wrap(err, "create_feature_requirement")
}

/*
UpdateRequirement modifies a requirement, scoped by feature AND project.

Description: An empty status keeps the stored value (PATCH semantics,
resolved in SQL so no extra round trip is needed). RETURNING hydrates the
effective status back into the record.
*/
func (repository *PostgresRepository) UpdateRequirement(context context.Context, requirement *Requirement) error {
	const query = `
		UPDATE core.featurerequirement
		SET name = $4,
			status = CASE WHEN $5 = '' THEN status ELSE $5 END,
			updatedat = NOW()
		WHERE id = $1 AND featureid = $2 AND projectid = $3
		RETURNING status, updatedat
	`
	err := repository.db.QueryRow(context, query,
		requirement.ID, requirement.FeatureID, requirement.ProjectID, requirement.Name, requirement.Status,
	).Scan(&requirement.Status, &requirement.UpdatedAt)

	return dberr.Wrap(err, "update_feature_requirement")
}

/*
DeleteRequirement removes a requirement, scoped by feature AND project.
*/
func (repository *PostgresRepository) DeleteRequirement(context context.Context, projectID, featureID, requirementID string) error {
	const query = `
		DELETE FROM core.featurerequirement
		WHERE id = $1 AND featureid = $2 AND projectid = $3
	`
	result, err := repository.db.Exec(context, query, requirementID, featureID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_feature_requirement")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

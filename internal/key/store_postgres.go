// Copyright (c) 2026 SMRT Labs. All rights reserved.

package key

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed key store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List returns all keys under the project, oldest first.
*/
func (repository *PostgresRepository) List(context context.Context, projectID string) ([]*Key, error) {
	const query = `
		SELECT id, projectid, name, secrethash, createdat, updatedat
		FROM core.apikey
		WHERE projectid = $1
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_keys")
	}
	defer rows.Close()

	var keys []*Key
	for rows.Next() {
		record := &Key{}
		if err := rows.Scan(&record.ID, &record.ProjectID, &record.Name, &record.SecretHash, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_key")
		}
		keys = append(keys, record)
	}

	return keys, nil
}

/*
Find retrieves a key by the (projectID, keyID) pair.
*/
func (repository *PostgresRepository) Find(context context.Context, projectID, keyID string) (*Key, error) {
	const query = `
		SELECT id, projectid, name, secrethash, createdat, updatedat
		FROM core.apikey
		WHERE id = $1 AND projectid = $2
	`
	record := &Key{}
	err := repository.db.QueryRow(context, query, keyID, projectID).Scan(
		&record.ID, &record.ProjectID, &record.Name, &record.SecretHash, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_key")
	}
	return record, nil
}

/*
Create inserts a new key row with its secret hash.
*/
func (repository *PostgresRepository) Create(context context.Context, key *Key) error {
	const query = `
		INSERT INTO core.apikey (id, projectid, name, secrethash, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		key.ID, key.ProjectID, key.Name, key.SecretHash,
	).Scan(&key.CreatedAt, &key.UpdatedAt)

	return dberr.Wrap(err, "create_key")
}

/*
Delete removes a key, scoped by project id.
*/
func (repository *PostgresRepository) Delete(context context.Context, projectID, keyID string) error {
	const query = `DELETE FROM core.apikey WHERE id = $1 AND projectid = $2`

	result, err := repository.db.Exec(context, query, keyID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_key")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed session store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Session Registry

/*
Touch upserts the session row and bumps its visit counter.

Description: Single atomic statement. ON CONFLICT makes the first-request
race between concurrent requests safe: whichever insert loses the race
turns into an increment instead of a constraint violation.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Touch(context context.Context, sessionID string) error {
	const query = `
		INSERT INTO users.session (sessionid, visits, createdat, updatedat)
		VALUES ($1, 1, NOW(), NOW())
		ON CONFLICT (sessionid)
		DO UPDATE SET visits = users.session.visits + 1, updatedat = NOW()
	`
	_, err := repository.db.Exec(context, query, sessionID)
	return dberr.Wrap(err, "touch_session")
}

/*
Find retrieves a single session row by its identifier.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated entity
  - error: ErrNotFound if the session has never been touched
*/
func (repository *PostgresRepository) Find(context context.Context, sessionID string) (*Session, error) {
	const query = `
		SELECT sessionid, visits, userid, createdat, updatedat
		FROM users.session
		WHERE sessionid = $1
	`
	record := &Session{}
	err := repository.db.QueryRow(context, query, sessionID).Scan(
		&record.SessionID, &record.Visits, &record.UserID, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_session")
	}
	return record, nil
}

/*
LinkUser sets or clears the session's user association.

Parameters:
  - context: context.Context
  - sessionID: string
  - userID: *string (nil clears the link)

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) LinkUser(context context.Context, sessionID string, userID *string) error {
	const query = `
		UPDATE users.session
		SET userid = $2, updatedat = NOW()
		WHERE sessionid = $1
	`
	_, err := repository.db.Exec(context, query, sessionID, userID)
	return dberr.Wrap(err, "link_session_user")
}

/*
GetUser resolves the user linked to a session.

Description: An unknown session id is treated the same as an anonymous one —
the caller only cares whether an authenticated user stands behind the cookie.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: User UUID, or "" for anonymous/unknown sessions
  - error: Persistence failures
*/
func (repository *PostgresRepository) GetUser(context context.Context, sessionID string) (string, error) {
	const query = `SELECT userid FROM users.session WHERE sessionid = $1`

	var userID *string
	err := repository.db.QueryRow(context, query, sessionID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", dberr.Wrap(err, "get_session_user")
	}

	if userID == nil {
		return "", nil
	}
	return *userID, nil
}

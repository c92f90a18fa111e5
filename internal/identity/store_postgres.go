// Copyright (c) 2026 SMRT Labs. All rights reserved.

package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository constructs a PostgreSQL backed user store.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create inserts a new user record.

Description: The unique index on email turns duplicate registrations into a
409 Conflict via dberr.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Conflict on duplicate email, or persistence failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (id, email, name, passwordhash, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

/*
FindByEmail retrieves a user by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity including the password hash
  - error: ErrNotFound if no account exists
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, name, passwordhash, createdat, updatedat
		FROM users.account
		WHERE email = $1
	`
	user := &User{}
	err := repository.db.QueryRow(context, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_user_by_email")
	}
	return user, nil
}

/*
FindByID retrieves a user by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: ErrNotFound if missing
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, name, passwordhash, createdat, updatedat
		FROM users.account
		WHERE id = $1
	`
	user := &User{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_user_by_id")
	}
	return user, nil
}

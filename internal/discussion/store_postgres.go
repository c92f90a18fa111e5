// Copyright (c) 2026 SMRT Labs. All rights reserved.

package discussion

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed discussion store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Discussion Retrieval

/*
List returns all discussions under the project, oldest first.
*/
func (repository *PostgresRepository) List(context context.Context, projectID string) ([]*Discussion, error) {
	const query = `
		SELECT id, projectid, name, createdat, updatedat
		FROM core.discussion
		WHERE projectid = $1
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_discussions")
	}
	defer rows.Close()

	var discussions []*Discussion
	for rows.Next() {
		record := &Discussion{}
		if err := rows.Scan(&record.ID, &record.ProjectID, &record.Name, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_discussion")
		}
		discussions = append(discussions, record)
	}

	return discussions, nil
}

/*
Find retrieves a discussion scoped by project id.
*/
func (repository *PostgresRepository) Find(context context.Context, projectID, discussionID string) (*Discussion, error) {
	const query = `
		SELECT id, projectid, name, createdat, updatedat
		FROM core.discussion
		WHERE id = $1 AND projectid = $2
	`
	record := &Discussion{}
	err := repository.db.QueryRow(context, query, discussionID, projectID).Scan(
		&record.ID, &record.ProjectID, &record.Name, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_discussion")
	}
	return record, nil
}

// # Discussion Mutation

/*
Create inserts a new discussion row.
*/
func (repository *PostgresRepository) Create(context context.Context, discussion *Discussion) error {
	const query = `
		INSERT INTO core.discussion (id, projectid, name, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		discussion.ID, discussion.ProjectID, discussion.Name,
	).Scan(&discussion.CreatedAt, &discussion.UpdatedAt)

	return dberr.Wrap(err, "create_discussion")
}

/*
Update renames a discussion, scoped by project id.
*/
func (repository *PostgresRepository) Update(context context.Context, discussion *Discussion) error {
	const query = `
		UPDATE core.discussion
		SET name = $3, updatedat = NOW()
		WHERE id = $1 AND projectid = $2
	`
	result, err := repository.db.Exec(context, query, discussion.ID, discussion.ProjectID, discussion.Name)
	if err != nil {
		return dberr.Wrap(err, "update_discussion")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
Delete removes a discussion, scoped by project id. Messages go with it via
ON DELETE CASCADE.
*/
func (repository *PostgresRepository) Delete(context context.Context, projectID, discussionID string) error {
	const query = `DELETE FROM core.discussion WHERE id = $1 AND projectid = $2`

	result, err := repository.db.Exec(context, query, discussionID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_discussion")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Message Implementation

/*
ListMessages returns a discussion's messages, oldest first, scoped by project.
*/
func (repository *PostgresRepository) ListMessages(context context.Context, projectID, discussionID string) ([]*Message, error) {
	const query = `
		SELECT id, discussionid, projectid, body, authorname, createdat, updatedat
		FROM core.discussionmessage
		WHERE discussionid = $1 AND projectid = $2
		ORDER BY createdat ASC
	`
	rows, err := repository.db.Query(context, query, discussionID, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_discussion_messages")
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		record := &Message{}
		if err := rows.Scan(&record.ID, &record.DiscussionID, &record.ProjectID, &record.Body, &record.AuthorName, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_discussion_message")
		}
		messages = append(messages, record)
	}

	return messages, nil
}

/*
CreateMessage inserts a new message row.
*/
func (repository *PostgresRepository) CreateMessage(context context.Context, message *Message) error {
	const query = `
		INSERT INTO core.discussionmessage (id, discussionid, projectid, body, authorname, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, query,
		message.ID, message.DiscussionID, message.ProjectID, message.Body, message.AuthorName,
	).Scan(&message.CreatedAt, &message.UpdatedAt)

	return dberr.Wrap(err, "create_discussion_message")
}

/*
UpdateMessage rewrites a message body, scoped by discussion AND project. The
author attribution is deliberately not part of the SET list.
*/
func (repository *PostgresRepository) UpdateMessage(context context.Context, message *Message) error {
	const query = `
		UPDATE core.discussionmessage
		SET body = $4, updatedat = NOW()
		WHERE id = $1 AND discussionid = $2 AND projectid = $3
		RETURNING authorname
	`
	err := repository.db.QueryRow(context, query,
		message.ID, message.DiscussionID, message.ProjectID, message.Body,
	).Scan(&message.AuthorName)

	return dberr.Wrap(err, "update_discussion_message")
}

/*
DeleteMessage removes a message, scoped by discussion AND project.
*/
func (repository *PostgresRepository) DeleteMessage(context context.Context, projectID, discussionID, messageID string) error {
	const query = `
		DELETE FROM core.discussionmessage
		WHERE id = $1 AND discussionid = $2 AND projectid = $3
	`
	result, err := repository.db.Exec(context, query, messageID, discussionID, projectID)
	if err != nil {
		return dberr.Wrap(err, "delete_discussion_message")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

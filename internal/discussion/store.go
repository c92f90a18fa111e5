// Copyright (c) 2026 SMRT Labs. All rights reserved.

package discussion

import "context"

// # Discussion Data Access

// Repository defines the data access contract for discussions and their
// messages.
type Repository interface {

	/*
		List returns the project's discussions, oldest first.

		Parameters:
		  - context: context.Context
		  - projectID: string

		Returns:
		  - []*Discussion: All discussions under the project
		  - error: Database retrieval failures
	*/
	List(context context.Context, projectID string) ([]*Discussion, error)

	/*
		Find retrieves a discussion scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Find(context context.Context, projectID, discussionID string) (*Discussion, error)

	/*
		Create persists a new discussion under its project.
	*/
	Create(context context.Context, discussion *Discussion) error

	/*
		Update renames a discussion, scoped by project id.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Update(context context.Context, discussion *Discussion) error

	/*
		Delete removes a discussion, scoped by project id. The database
		cascades the delete to the discussion's messages.

		Returns ErrNotFound when the row does not belong to the project.
	*/
	Delete(context context.Context, projectID, discussionID string) error

	// # Messages

	/*
		ListMessages returns a discussion's messages, oldest first, scoped by
		project.
	*/
	ListMessages(context context.Context, projectID, discussionID string) ([]*Message, error)

	/*
		CreateMessage persists a new message under its discussion.
	*/
	CreateMessage(context context.Context, message *Message) error

	/*
		UpdateMessage rewrites a message body, scoped by discussion AND
		project. AuthorName is immutable.

		Returns ErrNotFound when the row does not belong to both.
	*/
	UpdateMessage(context context.Context, message *Message) error

	/*
		DeleteMessage removes a message, scoped by discussion AND project.

		Returns ErrNotFound when the row does not belong to both.
	*/
	DeleteMessage(context context.Context, projectID, discussionID, messageID string) error
}

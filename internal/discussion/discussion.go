// Copyright (c) 2026 SMRT Labs. All rights reserved.

package discussion

import "time"

// Discussion is a named message thread under a project.
type Discussion struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single post in a discussion. AuthorName is captured from the
// authenticated identity at post time (the user's display name on the web
// surface, the key's name on the CLI surface) and never rewritten afterwards.
type Message struct {
	ID           string    `json:"id"`
	DiscussionID string    `json:"discussionId"`
	ProjectID    string    `json:"projectId"`
	Body         string    `json:"body"`
	AuthorName   string    `json:"authorName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validated field names.
const (
	FieldName = "name"
	FieldBody = "body"
)

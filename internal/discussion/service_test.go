// Copyright (c) 2026 SMRT Labs. All rights reserved.

package discussion_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/discussion"
	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeRepository is an in-memory [discussion.Repository] enforcing the same
// scoping rules as the SQL store.
type fakeRepository struct {
	discussions map[string]*discussion.Discussion
	messages    map[string]*discussion.Message
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		discussions: make(map[string]*discussion.Discussion),
		messages:    make(map[string]*discussion.Message),
	}
}

func (f *fakeRepository) List(_ context.Context, projectID string) ([]*discussion.Discussion, error) {
	var out []*discussion.Discussion
	for _, record := range f.discussions {
		if record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) Find(_ context.Context, projectID, discussionID string) (*discussion.Discussion, error) {
	record, ok := f.discussions[discussionID]
	if !ok || record.ProjectID != projectID {
		return nil, dberr.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepository) Create(_ context.Context, record *discussion.Discussion) error {
	copied := *record
	f.discussions[record.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, record *discussion.Discussion) error {
	existing, ok := f.discussions[record.ID]
	if !ok || existing.ProjectID != record.ProjectID {
		return dberr.ErrNotFound
	}
	existing.Name = record.Name
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, projectID, discussionID string) error {
	existing, ok := f.discussions[discussionID]
	if !ok || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.discussions, discussionID)
	for id, record := range f.messages {
		if record.DiscussionID == discussionID {
			delete(f.messages, id)
		}
	}
	return nil
}

func (f *fakeRepository) ListMessages(_ context.Context, projectID, discussionID string) ([]*discussion.Message, error) {
	var out []*discussion.Message
	for _, record := range f.messages {
		if record.DiscussionID == discussionID && record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateMessage(_ context.Context, record *discussion.Message) error {
	copied := *record
	f.messages[record.ID] = &copied
	return nil
}

func (f *fakeRepository) UpdateMessage(_ context.Context, record *discussion.Message) error {
	existing, ok := f.messages[record.ID]
	if !ok || existing.DiscussionID != record.DiscussionID || existing.ProjectID != record.ProjectID {
		return dberr.ErrNotFound
	}
	existing.Body = record.Body
	record.AuthorName = existing.AuthorName
	return nil
}

func (f *fakeRepository) DeleteMessage(_ context.Context, projectID, discussionID, messageID string) error {
	existing, ok := f.messages[messageID]
	if !ok || existing.DiscussionID != discussionID || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.messages, messageID)
	return nil
}

func newTestService() *discussion.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return discussion.NewService(newFakeRepository(), logger)
}

func TestService_Lifecycle(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, "Launch readiness")
	require.NoError(t, err)

	fetched, err := service.Get(ctx, projectID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch readiness", fetched.Name)

	renamed, err := service.Update(ctx, projectID, created.ID, "Launch retro")
	require.NoError(t, err)
	assert.Equal(t, "Launch retro", renamed.Name)

	require.NoError(t, service.Delete(ctx, projectID, created.ID))

	_, err = service.Get(ctx, projectID, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestService_Messages covers posting, author immutability on edit, and the
discussion+project scope on mutation.
*/
func TestService_Messages(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	thread, err := service.Create(ctx, projectID, "Launch readiness")
	require.NoError(t, err)
	sibling, err := service.Create(ctx, projectID, "Other thread")
	require.NoError(t, err)

	posted, err := service.PostMessage(ctx, projectID, thread.ID, "Are we go for Friday?", "ci-bot")
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", posted.AuthorName)

	// Posting into a foreign discussion reads as not found
	_, err = service.PostMessage(ctx, uuidv7.New(), thread.ID, "hi", "ci-bot")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// Empty body is rejected
	_, err = service.PostMessage(ctx, projectID, thread.ID, "", "ci-bot")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)

	// The message is invisible through a sibling discussion
	_, err = service.UpdateMessage(ctx, projectID, sibling.ID, posted.ID, "hijack")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// Edits keep the original attribution
	updated, err := service.UpdateMessage(ctx, projectID, thread.ID, posted.ID, "Go for Friday confirmed.")
	require.NoError(t, err)
	assert.Equal(t, "Go for Friday confirmed.", updated.Body)
	assert.Equal(t, "ci-bot", updated.AuthorName)

	require.NoError(t, service.DeleteMessage(ctx, projectID, thread.ID, posted.ID))

	remaining, err := service.ListMessages(ctx, projectID, thread.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestService_ListMessages_UnknownDiscussion(t *testing.T) {
	service := newTestService()

	_, err := service.ListMessages(context.Background(), uuidv7.New(), uuidv7.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Discussion not found", apperr.As(err).Message)
}

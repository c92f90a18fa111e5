// Copyright (c) 2026 SMRT Labs. All rights reserved.

package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/internal/session"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeRepository is an in-memory [session.Repository] with upsert semantics
// matching the SQL store.
type fakeRepository struct {
	mu   sync.Mutex
	rows map[string]*session.Session
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[string]*session.Session)}
}

func (f *fakeRepository) Touch(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if record, ok := f.rows[sessionID]; ok {
		record.Visits++
		return nil
	}
	f.rows[sessionID] = &session.Session{SessionID: sessionID, Visits: 1}
	return nil
}

func (f *fakeRepository) Find(_ context.Context, sessionID string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.rows[sessionID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepository) LinkUser(_ context.Context, sessionID string, userID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.rows[sessionID]
	if !ok {
		return nil
	}
	record.UserID = userID
	return nil
}

func (f *fakeRepository) GetUser(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.rows[sessionID]
	if !ok || record.UserID == nil {
		return "", nil
	}
	return *record.UserID, nil
}

func newTestService(repo session.Repository) *session.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewService(repo, logger)
}

/*
TestService_Touch verifies the visit counter semantics: first touch creates
the row with visits=1, later touches increment it.
*/
func TestService_Touch(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()
	sid := uuidv7.New()

	require.NoError(t, service.Touch(ctx, sid))

	record, err := service.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Visits)
	assert.Nil(t, record.UserID)

	require.NoError(t, service.Touch(ctx, sid))
	require.NoError(t, service.Touch(ctx, sid))

	record, err = service.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 3, record.Visits)
}

/*
TestService_Touch_Concurrent verifies that parallel touches of the same
fresh session id never fail and never lose increments.
*/
func TestService_Touch_Concurrent(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()
	sid := uuidv7.New()

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- service.Touch(ctx, sid)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	record, err := service.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, workers, record.Visits)
}

/*
TestService_LinkUser covers login linkage, identity resolution, and the
logout unlink that retains the session row.
*/
func TestService_LinkUser(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)
	ctx := context.Background()
	sid := uuidv7.New()
	userID := uuidv7.New()

	require.NoError(t, service.Touch(ctx, sid))

	// Anonymous session resolves to no user
	resolved, err := service.GetUser(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, resolved)

	// Login links the user
	require.NoError(t, service.LinkUser(ctx, sid, userID))
	resolved, err = service.GetUser(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, userID, resolved)

	// Logout unlinks but keeps the row and its visit history
	require.NoError(t, service.UnlinkUser(ctx, sid))
	resolved, err = service.GetUser(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, resolved)

	record, err := service.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Visits)
}

/*
TestService_GetUser_UnknownSession verifies unknown ids resolve to anonymous
rather than erroring, matching the SQL store behavior.
*/
func TestService_GetUser_UnknownSession(t *testing.T) {
	service := newTestService(newFakeRepository())

	resolved, err := service.GetUser(context.Background(), uuidv7.New())
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package key_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/key"
	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeRepository is an in-memory [key.Repository] keyed exactly like the SQL
// store: lookups require the (projectID, keyID) pair.
type fakeRepository struct {
	keys map[string]*key.Key
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{keys: make(map[string]*key.Key)}
}

func (f *fakeRepository) List(_ context.Context, projectID string) ([]*key.Key, error) {
	var out []*key.Key
	for _, record := range f.keys {
		if record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) Find(_ context.Context, projectID, keyID string) (*key.Key, error) {
	record, ok := f.keys[keyID]
	if !ok || record.ProjectID != projectID {
		return nil, dberr.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepository) Create(_ context.Context, record *key.Key) error {
	copied := *record
	f.keys[record.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, projectID, keyID string) error {
	existing, ok := f.keys[keyID]
	if !ok || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.keys, keyID)
	return nil
}

func newTestService() *key.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return key.NewService(newFakeRepository(), logger)
}

/*
TestService_Create_TokenOnce verifies the one-time token contract: creation
returns the raw secret, and no later read path ever exposes it again.
*/
func TestService_Create_TokenOnce(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, "ci")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Token, "sk_"))
	assert.Len(t, created.Token, 51) // "sk_" + 48 hex chars
	assert.NotEqual(t, created.Token, created.SecretHash)

	// The list surface never carries secret material
	listed, err := service.List(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	serialized, err := json.Marshal(listed)
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), created.Token)
	assert.NotContains(t, string(serialized), created.SecretHash)
	assert.NotContains(t, string(serialized), "secret")
}

/*
TestService_Validate_Ordering pins the CLI authentication contract: missing
header beats lookup, lookup beats secret comparison.
*/
func TestService_Validate_Ordering(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, "ci")
	require.NoError(t, err)

	// 1. Missing secret → 401 before any lookup
	_, err = service.Validate(ctx, projectID, created.ID, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Missing x-cli-secret header", apperr.As(err).Message)

	// 2. Unknown key id → 404 even with a plausible secret
	_, err = service.Validate(ctx, projectID, uuidv7.New(), created.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Key not found", apperr.As(err).Message)

	// 2b. A real key id under the wrong project misses identically
	_, err = service.Validate(ctx, uuidv7.New(), created.ID, created.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// 3. Wrong secret → 401
	_, err = service.Validate(ctx, projectID, created.ID, "sk_"+strings.Repeat("0", 48))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Invalid secret", apperr.As(err).Message)

	// 4. Correct secret → the key record, name intact for attribution
	validated, err := service.Validate(ctx, projectID, created.ID, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, validated.ID)
	assert.Equal(t, "ci", validated.Name)
}

func TestService_Delete_Revokes(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, "ci")
	require.NoError(t, err)

	// A foreign project cannot revoke the key
	err = service.Delete(ctx, uuidv7.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	require.NoError(t, service.Delete(ctx, projectID, created.ID))

	// The raw secret is dead immediately
	_, err = service.Validate(ctx, projectID, created.ID, created.Token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

func TestService_Create_Validation(t *testing.T) {
	service := newTestService()

	_, err := service.Create(context.Background(), uuidv7.New(), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

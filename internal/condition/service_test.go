// Copyright (c) 2026 SMRT Labs. All rights reserved.

package condition_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/condition"
	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeRepository is an in-memory [condition.Repository] that enforces the
// project scope the way the SQL store does.
type fakeRepository struct {
	conditions map[string]*condition.Condition
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{conditions: make(map[string]*condition.Condition)}
}

func (f *fakeRepository) List(_ context.Context, projectID string) ([]*condition.Condition, error) {
	var out []*condition.Condition
	for _, record := range f.conditions {
		if record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(_ context.Context, record *condition.Condition) error {
	copied := *record
	f.conditions[record.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, record *condition.Condition) error {
	existing, ok := f.conditions[record.ID]
	if !ok || existing.ProjectID != record.ProjectID {
		return dberr.ErrNotFound
	}
	existing.Name = record.Name
	existing.Message = record.Message
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, projectID, conditionID string) error {
	existing, ok := f.conditions[conditionID]
	if !ok || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.conditions, conditionID)
	return nil
}

func newTestService() (*condition.Service, *fakeRepository) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return condition.NewService(repo, logger), repo
}

func TestService_CreateAndList(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	message := "must hold under load"
	created, err := service.Create(ctx, projectID, condition.Input{Name: "C1", Message: &message})
	require.NoError(t, err)
	assert.Equal(t, projectID, created.ProjectID)

	listed, err := service.List(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	require.NotNil(t, listed[0].Message)
	assert.Equal(t, message, *listed[0].Message)

	// Another project sees nothing
	other, err := service.List(ctx, uuidv7.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestService_CreateValidation(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), uuidv7.New(), condition.Input{Name: ""})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestService_Update_CrossProject verifies that a condition cannot be modified
or deleted through a different project id.
*/
func TestService_Update_CrossProject(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, condition.Input{Name: "C1"})
	require.NoError(t, err)

	_, err = service.Update(ctx, uuidv7.New(), created.ID, condition.Input{Name: "hijack"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Condition not found", apperr.As(err).Message)

	err = service.Delete(ctx, uuidv7.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	updated, err := service.Update(ctx, projectID, created.ID, condition.Input{Name: "C1-renamed"})
	require.NoError(t, err)
	assert.Equal(t, "C1-renamed", updated.Name)

	require.NoError(t, service.Delete(ctx, projectID, created.ID))
}

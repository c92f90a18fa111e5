// Copyright (c) 2026 SMRT Labs. All rights reserved.

package feature_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/feature"
	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeRepository is an in-memory [feature.Repository] enforcing the same
// scoping rules as the SQL store.
type fakeRepository struct {
	features map[string]*feature.Feature
	reqs     map[string]*feature.Requirement
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		features: make(map[string]*feature.Feature),
		reqs:     make(map[string]*feature.Requirement),
	}
}

func (f *fakeRepository) List(_ context.Context, projectID string) ([]*feature.Feature, error) {
	var out []*feature.Feature
	for _, record := range f.features {
		if record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) Find(_ context.Context, projectID, featureID string) (*feature.Feature, error) {
	record, ok := f.features[featureID]
	if !ok || record.ProjectID != projectID {
		return nil, dberr.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeRepository) Create(_ context.Context, record *feature.Feature) error {
	copied := *record
	f.features[record.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, record *feature.Feature) error {
	existing, ok := f.features[record.ID]
	if !ok || existing.ProjectID != record.ProjectID {
		return dberr.ErrNotFound
	}
	existing.Name = record.Name
	existing.Message = record.Message
	existing.Status = record.Status
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, projectID, featureID string) error {
	existing, ok := f.features[featureID]
	if !ok || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.features, featureID)
	for id, record := range f.reqs {
		if record.FeatureID == featureID {
			delete(f.reqs, id)
		}
	}
	return nil
}

func (f *fakeRepository) ListRequirements(_ context.Context, projectID, featureID string) ([]*feature.Requirement, error) {
	var out []*feature.Requirement
	for _, record := range f.reqs {
		if record.FeatureID == featureID && record.ProjectID == projectID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateRequirement(_ context.Context, record *feature.Requirement) error {
	copied := *record
	f.reqs[record.ID] = &copied
	return nil
}

func (f *fakeRepository) UpdateRequirement(_ context.Context, record *feature.Requirement) error {
	existing, ok := f.reqs[record.ID]
	if !ok || existing.FeatureID != record.FeatureID || existing.ProjectID != record.ProjectID {
		return dberr.ErrNotFound
	}
	existing.Name = record.Name
	if record.Status != "" {
		existing.Status = record.Status
	}
	record.Status = existing.Status
	return nil
}

func (f *fakeRepository) DeleteRequirement(_ context.Context, projectID, featureID, requirementID string) error {
	existing, ok := f.reqs[requirementID]
	if !ok || existing.FeatureID != featureID || existing.ProjectID != projectID {
		return dberr.ErrNotFound
	}
	delete(f.reqs, requirementID)
	return nil
}

func newTestService() *feature.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return feature.NewService(newFakeRepository(), logger)
}

/*
TestService_Create_DefaultStatus verifies that an omitted status resolves to
open while an explicit one is preserved.
*/
func TestService_Create_DefaultStatus(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, feature.Input{Name: "F1"})
	require.NoError(t, err)
	assert.Equal(t, feature.StatusOpen, created.Status)

	explicit, err := service.Create(ctx, projectID, feature.Input{Name: "F2", Status: feature.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, feature.StatusDone, explicit.Status)
}

func TestService_Create_InvalidStatus(t *testing.T) {
	service := newTestService()

	_, err := service.Create(context.Background(), uuidv7.New(), feature.Input{
		Name:   "F1",
		Status: "cancelled",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestService_Update_StatusPatch verifies PATCH semantics: an omitted status
keeps the stored value, an explicit one replaces it.
*/
func TestService_Update_StatusPatch(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, feature.Input{Name: "F1", Status: feature.StatusInProgress})
	require.NoError(t, err)

	renamed, err := service.Update(ctx, projectID, created.ID, feature.Input{Name: "F1-renamed"})
	require.NoError(t, err)
	assert.Equal(t, feature.StatusInProgress, renamed.Status)

	done, err := service.Update(ctx, projectID, created.ID, feature.Input{Name: "F1-renamed", Status: feature.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, feature.StatusDone, done.Status)
}

/*
TestService_CrossProjectScope verifies that features are unreachable through
a foreign project id.
*/
func TestService_CrossProjectScope(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	created, err := service.Create(ctx, projectID, feature.Input{Name: "F1"})
	require.NoError(t, err)

	_, err = service.Get(ctx, uuidv7.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	assert.Equal(t, "Feature not found", apperr.As(err).Message)

	_, err = service.Update(ctx, uuidv7.New(), created.ID, feature.Input{Name: "hijack"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	err = service.Delete(ctx, uuidv7.New(), created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestService_Requirements covers the nested requirement lifecycle and its
feature+project scope.
*/
func TestService_Requirements(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	projectID := uuidv7.New()

	first, err := service.Create(ctx, projectID, feature.Input{Name: "F1"})
	require.NoError(t, err)
	second, err := service.Create(ctx, projectID, feature.Input{Name: "F2"})
	require.NoError(t, err)

	created, err := service.CreateRequirement(ctx, projectID, first.ID, feature.RequirementInput{Name: "Renders in under 16ms"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, created.FeatureID)
	assert.Equal(t, feature.StatusOpen, created.Status)

	listed, err := service.ListRequirements(ctx, projectID, first.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Unknown feature reads as not found rather than an empty list
	_, err = service.ListRequirements(ctx, projectID, uuidv7.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// The requirement is invisible through a sibling feature
	_, err = service.UpdateRequirement(ctx, projectID, second.ID, created.ID, feature.RequirementInput{Name: "hijack"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// An omitted status keeps the stored value, an explicit one replaces it
	renamed, err := service.UpdateRequirement(ctx, projectID, first.ID, created.ID, feature.RequirementInput{Name: "Renders in under 8ms"})
	require.NoError(t, err)
	assert.Equal(t, "Renders in under 8ms", renamed.Name)
	assert.Equal(t, feature.StatusOpen, renamed.Status)

	updated, err := service.UpdateRequirement(ctx, projectID, first.ID, created.ID, feature.RequirementInput{
		Name:   "Renders in under 8ms",
		Status: feature.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, feature.StatusDone, updated.Status)

	require.NoError(t, service.DeleteRequirement(ctx, projectID, first.ID, created.ID))

	remaining, err := service.ListRequirements(ctx, projectID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

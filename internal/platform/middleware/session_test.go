// Copyright (c) 2026 SMRT Labs. All rights reserved.

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/platform/constants"
	"github.com/smrtlabs/smrt/internal/platform/ctxutil"
	"github.com/smrtlabs/smrt/internal/platform/middleware"
)

// fakeRegistry records touched session ids and can simulate a store outage.
type fakeRegistry struct {
	touched []string
	err     error
}

func (f *fakeRegistry) Touch(_ context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.touched = append(f.touched, sessionID)
	return nil
}

type fakeConfig struct{ production bool }

func (f fakeConfig) IsProduction() bool { return f.production }

// serveSession runs a request through the session middleware and captures the
// session id the handler observed.
func serveSession(t *testing.T, registry *fakeRegistry, request *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	seen := ""
	handler := middleware.Session(registry, fakeConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetSessionID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder, seen
}

/*
TestSession_MintsRandomID verifies that a cookieless request gets a fresh
random (version 4) session id, set as an HttpOnly cookie and exposed to the
handler's context.
*/
func TestSession_MintsRandomID(t *testing.T) {
	registry := &fakeRegistry{}
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	recorder, seen := serveSession(t, registry, request)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	minted, err := uuid.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), minted.Version())

	assert.Equal(t, cookie.Value, seen)
	assert.Equal(t, []string{cookie.Value}, registry.touched)
}

/*
TestSession_ReusesWellFormedCookie verifies that a valid incoming session id
is kept as-is and no replacement cookie is issued.
*/
func TestSession_ReusesWellFormedCookie(t *testing.T) {
	registry := &fakeRegistry{}
	existing := uuid.NewString()

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: existing})

	recorder, seen := serveSession(t, registry, request)

	assert.Empty(t, recorder.Result().Cookies())
	assert.Equal(t, existing, seen)
}

/*
TestSession_ReplacesTamperedCookie verifies that a malformed session id is
discarded and a fresh one minted in its place.
*/
func TestSession_ReplacesTamperedCookie(t *testing.T) {
	registry := &fakeRegistry{}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "not-a-uuid"})

	recorder, seen := serveSession(t, registry, request)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "not-a-uuid", seen)
	assert.Equal(t, cookies[0].Value, seen)
}

/*
TestSession_RegistryFailure verifies the 500 abort when the session row
cannot be persisted; the handler must not run.
*/
func TestSession_RegistryFailure(t *testing.T) {
	registry := &fakeRegistry{err: errors.New("pg: connection refused")}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder, seen := serveSession(t, registry, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Empty(t, seen)
}

// Copyright (c) 2026 SMRT Labs. All rights reserved.

package identity_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smrtlabs/smrt/internal/identity"
	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/dberr"
	"github.com/smrtlabs/smrt/pkg/uuidv7"
)

// fakeUserRepository is an in-memory [identity.UserRepository] enforcing
// email uniqueness like the SQL store.
type fakeUserRepository struct {
	byEmail map[string]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byEmail: make(map[string]*identity.User)}
}

func (f *fakeUserRepository) Create(_ context.Context, user *identity.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperr.Conflict("Resource already exists")
	}
	copied := *user
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*identity.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

// brokenUserRepository simulates a credential store outage.
type brokenUserRepository struct {
	err error
}

func (b *brokenUserRepository) Create(_ context.Context, _ *identity.User) error {
	return b.err
}

func (b *brokenUserRepository) FindByEmail(_ context.Context, _ string) (*identity.User, error) {
	return nil, b.err
}

func (b *brokenUserRepository) FindByID(_ context.Context, _ string) (*identity.User, error) {
	return nil, b.err
}

// fakeAttemptRepository counts failures without expiry.
type fakeAttemptRepository struct {
	counts map[string]int
}

func newFakeAttemptRepository() *fakeAttemptRepository {
	return &fakeAttemptRepository{counts: make(map[string]int)}
}

func (f *fakeAttemptRepository) Count(_ context.Context, email string) (int, error) {
	return f.counts[email], nil
}

func (f *fakeAttemptRepository) Increment(_ context.Context, email string) (int, error) {
	f.counts[email]++
	return f.counts[email], nil
}

func (f *fakeAttemptRepository) Reset(_ context.Context, email string) error {
	delete(f.counts, email)
	return nil
}

// fakeSessionLinker records the user linked to each session.
type fakeSessionLinker struct {
	links map[string]string
}

func newFakeSessionLinker() *fakeSessionLinker {
	return &fakeSessionLinker{links: make(map[string]string)}
}

func (f *fakeSessionLinker) LinkUser(_ context.Context, sessionID, userID string) error {
	f.links[sessionID] = userID
	return nil
}

func (f *fakeSessionLinker) UnlinkUser(_ context.Context, sessionID string) error {
	delete(f.links, sessionID)
	return nil
}

type testHarness struct {
	service  *identity.Service
	users    *fakeUserRepository
	attempts *fakeAttemptRepository
	sessions *fakeSessionLinker
}

func newTestHarness() *testHarness {
	users := newFakeUserRepository()
	attempts := newFakeAttemptRepository()
	sessions := newFakeSessionLinker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testHarness{
		service:  identity.NewService(users, attempts, sessions, logger),
		users:    users,
		attempts: attempts,
		sessions: sessions,
	}
}

/*
TestService_RegisterThenLogin verifies the enrollment round trip: register
auto-links the session, and a later login resolves the same user id.
*/
func TestService_RegisterThenLogin(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	sid := uuidv7.New()

	registered, err := h.service.Register(ctx, sid, identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.ID)
	assert.Equal(t, "a@test.com", registered.Email)

	// Auto-login linked the session
	assert.Equal(t, registered.ID, h.sessions.links[sid])

	// A fresh session logging in resolves the same account
	otherSid := uuidv7.New()
	loggedIn, err := h.service.Login(ctx, otherSid, identity.LoginInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.Equal(t, registered.ID, h.sessions.links[otherSid])
}

/*
TestService_Register_DuplicateEmail verifies the 409 on a second registration
and that no duplicate account is created.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.service.Register(ctx, uuidv7.New(), identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)

	_, err = h.service.Register(ctx, uuidv7.New(), identity.RegisterInput{
		Email:    "a@test.com",
		Password: "other-password",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Len(t, h.users.byEmail, 1)
}

/*
TestService_Register_MissingFields verifies the 400 for absent email/password.
*/
func TestService_Register_MissingFields(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	tests := []struct {
		name  string
		input identity.RegisterInput
	}{
		{"missing_email", identity.RegisterInput{Password: "pw-123456"}},
		{"missing_password", identity.RegisterInput{Email: "a@test.com"}},
		{"missing_both", identity.RegisterInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Register(ctx, uuidv7.New(), tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		})
	}
}

/*
TestService_Login_GenericFailure verifies that an unknown email and a wrong
password produce byte-identical 401 responses (no enumeration leak).
*/
func TestService_Login_GenericFailure(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.service.Register(ctx, uuidv7.New(), identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)

	_, unknownErr := h.service.Login(ctx, uuidv7.New(), identity.LoginInput{
		Email:    "nobody@test.com",
		Password: "pw-123456",
	})
	require.Error(t, unknownErr)

	_, wrongErr := h.service.Login(ctx, uuidv7.New(), identity.LoginInput{
		Email:    "a@test.com",
		Password: "wrong-password",
	})
	require.Error(t, wrongErr)

	unknownAE := apperr.As(unknownErr)
	wrongAE := apperr.As(wrongErr)
	require.NotNil(t, unknownAE)
	require.NotNil(t, wrongAE)

	assert.Equal(t, http.StatusUnauthorized, unknownAE.HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, wrongAE.HTTPStatus)
	assert.Equal(t, unknownAE.Message, wrongAE.Message)
}

/*
TestService_Login_Throttle verifies the lockout: after the failure budget is
spent, further attempts return 429 even with correct credentials, and a
successful login inside the budget resets the counter.
*/
func TestService_Login_Throttle(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	_, err := h.service.Register(ctx, uuidv7.New(), identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)

	for i := 0; i < identity.ThrottleMaxAttempts; i++ {
		_, err := h.service.Login(ctx, uuidv7.New(), identity.LoginInput{
			Email:    "a@test.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
	}

	// Budget exhausted: even the right password is throttled now
	_, err = h.service.Login(ctx, uuidv7.New(), identity.LoginInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)

	// A success before the limit clears the counter
	h.attempts.counts["a@test.com"] = identity.ThrottleMaxAttempts - 1
	_, err = h.service.Login(ctx, uuidv7.New(), identity.LoginInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)
	assert.Zero(t, h.attempts.counts["a@test.com"])
}

/*
TestService_Login_StorageOutage verifies that a credential-store failure is
not mistaken for bad credentials: the error bubbles as an internal failure
and the throttle counter stays untouched.
*/
func TestService_Login_StorageOutage(t *testing.T) {
	ctx := context.Background()
	attempts := newFakeAttemptRepository()
	sessions := newFakeSessionLinker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := &brokenUserRepository{err: errors.New("pg: connection refused")}
	service := identity.NewService(users, attempts, sessions, logger)

	_, err := service.Login(ctx, uuidv7.New(), identity.LoginInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.Error(t, err)

	// Not a client-facing error: no 401, no enumeration-safe message
	assert.Nil(t, apperr.As(err))
	assert.Zero(t, attempts.counts["a@test.com"])
}

/*
TestService_Register_StorageOutage verifies that a failing uniqueness
pre-check surfaces as an internal failure instead of reading as "email free".
*/
func TestService_Register_StorageOutage(t *testing.T) {
	ctx := context.Background()
	attempts := newFakeAttemptRepository()
	sessions := newFakeSessionLinker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := &brokenUserRepository{err: errors.New("pg: connection refused")}
	service := identity.NewService(users, attempts, sessions, logger)

	_, err := service.Register(ctx, uuidv7.New(), identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
	assert.Empty(t, sessions.links)
}

/*
TestService_Logout verifies the session unlink; the linker entry is removed
while the account remains.
*/
func TestService_Logout(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	sid := uuidv7.New()

	user, err := h.service.Register(ctx, sid, identity.RegisterInput{
		Email:    "a@test.com",
		Password: "pw-123456",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, h.sessions.links[sid])

	require.NoError(t, h.service.Logout(ctx, sid))
	assert.Empty(t, h.sessions.links[sid])

	_, err = h.users.FindByEmail(ctx, "a@test.com")
	assert.NoError(t, err)
}

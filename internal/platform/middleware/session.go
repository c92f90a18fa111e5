// Copyright (c) 2026 SMRT Labs. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/smrtlabs/smrt/internal/platform/constants"
	"github.com/smrtlabs/smrt/internal/platform/ctxutil"
)

// # Anonymous Sessions

// SessionRegistry records session activity. It is implemented by the session
// service; Touch creates the session row on first sight and increments its
// visit counter on every call.
type SessionRegistry interface {
	Touch(ctx context.Context, sessionID string) error
}

// SessionConfig defines the behavior the session middleware needs from the
// application configuration.
type SessionConfig interface {
	IsProduction() bool
}

/*
Session attaches an anonymous session to every request on the web surface.

Behavior:

  - Reads the session cookie; if it is missing or malformed, a fresh random
    UUIDv4 session ID is minted and set as an HttpOnly cookie. Session ids
    stay fully random (unlike the time-sortable entity ids) since the cookie
    value acts as a credential.
  - Registers the visit through the [SessionRegistry] before the handler runs,
    so downstream code can rely on the session row existing.
  - Injects the session ID into the request context for handlers and logging.

A registry failure aborts the request with a 500: the session surface cannot
make authorization decisions without a persisted session.
*/
func Session(registry SessionRegistry, cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			sessionID := ""

			// 1. Reuse the client's cookie when it carries a well-formed ID
			if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}

			// 2. Mint a fresh session for new or tampered-cookie clients
			if sessionID == "" {
				sessionID = uuid.NewString()

				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    sessionID,
					Path:     constants.SessionCookiePath,
					HttpOnly: true,
					Secure:   cfg.IsProduction(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			// 3. Record the visit before any handler consults the session
			if err := registry.Touch(request.Context(), sessionID); err != nil {
				reqLogger := ctxutil.GetLogger(request.Context())
				reqLogger.ErrorContext(request.Context(), "session_touch_failed",
					slog.String("error", err.Error()),
				)
				writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
				return
			}

			// 4. Expose the session ID to downstream handlers
			ctx := ctxutil.WithSessionID(request.Context(), sessionID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

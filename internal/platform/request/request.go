// Copyright (c) 2026 SMRT Labs. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smrtlabs/smrt/internal/platform/apperr"
	"github.com/smrtlabs/smrt/internal/platform/ctxutil"
	"github.com/smrtlabs/smrt/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
SessionID extracts the anonymous session identifier from the request context.

Returns the empty string if the session middleware did not run.
*/
func SessionID(request *http.Request) string {
	return ctxutil.GetSessionID(request.Context())
}

/*
RequiredSessionID ensures the request carries a session and returns its ID.

Returns:
  - string: Session UUID minted by the session middleware
  - error: apperr.Unauthorized if no session is attached
*/
func RequiredSessionID(request *http.Request) (string, error) {

	// Get the session identifier injected by the middleware
	sessionID := ctxutil.GetSessionID(request.Context())

	// Every request through the session middleware carries one; a missing ID
	// means the route was wired outside the session surface.
	if sessionID == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}

	return sessionID, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/samber/oops"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
	"github.com/thomasdurkin/Flask-Blog/pkg/errutil"
)

// validationCodes are error codes caused by bad user input.
var validationCodes = map[string]struct{}{
	"USER_INVALID_USERNAME": {},
	"USER_INVALID_EMAIL":    {},
	"AUTH_EMPTY_PASSWORD":   {},
	"POST_INVALID_TITLE":    {},
	"POST_INVALID_CONTENT":  {},
	"AVATAR_INVALID_EXT":    {},
}

// renderError maps a service error onto an HTTP status and renders it.
// The message sent to the client never embeds internal details; the full
// error is logged server-side by the caller.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *auth.DuplicateError
	if errors.As(err, &dup) {
		s.renderer.Error(w, r, http.StatusConflict, "DUPLICATE_KEY",
			"that "+dup.Field+" is already taken",
			map[string]string{dup.Field: "already taken"})
		return
	}

	if errors.Is(err, blog.ErrForbidden) {
		s.renderer.Error(w, r, http.StatusForbidden, "FORBIDDEN", "you do not own this post", nil)
		return
	}

	if errors.Is(err, auth.ErrNotFound) || errors.Is(err, blog.ErrNotFound) {
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	code := errutil.Code(err)

	switch code {
	case "AUTH_INVALID_CREDENTIALS":
		// Same message for wrong password and unknown email.
		s.renderer.Error(w, r, http.StatusUnauthorized, code,
			"login unsuccessful, please check email and password", nil)
		return
	case "RESET_TOKEN_INVALID":
		// Uniform for expired, tampered, and malformed tokens.
		s.renderer.Error(w, r, http.StatusBadRequest, code,
			"that is an invalid or expired token", nil)
		return
	case "SESSION_INVALID", "SESSION_EXPIRED", "SESSION_TOKEN_EMPTY":
		s.renderer.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED",
			"please log in to access this page", nil)
		return
	case "NOT_FOUND", "USER_NOT_FOUND", "POST_NOT_FOUND", "SESSION_NOT_FOUND":
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	if _, ok := validationCodes[code]; ok {
		s.renderer.Error(w, r, http.StatusBadRequest, code, userMessage(err), nil)
		return
	}

	errutil.LogError(s.logger, "request failed", err)
	s.renderer.Error(w, r, http.StatusInternalServerError, "INTERNAL", "something went wrong", nil)
}

// userMessage extracts a message safe to show the user from a validation
// error.
func userMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return "invalid input"
}

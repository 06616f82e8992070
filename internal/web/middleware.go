// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/pkg/errutil"
)

// sessionCookieName is the cookie carrying the session token.
const sessionCookieName = "flaskblog_session"

type contextKey int

const (
	userContextKey contextKey = iota
	sessionContextKey
)

// currentUser returns the authenticated user for the request, or nil.
func currentUser(r *http.Request) *auth.User {
	user, _ := r.Context().Value(userContextKey).(*auth.User)
	return user
}

// currentSession returns the session for the request, or nil.
func currentSession(r *http.Request) *auth.Session {
	session, _ := r.Context().Value(sessionContextKey).(*auth.Session)
	return session
}

// withCurrentUser resolves the session cookie on every request. Requests
// with no cookie, or with a stale one, proceed anonymously; a stale cookie
// is cleared on the way through.
func (s *Server) withCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, session, err := s.auth.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			// Only a cookie the service rejected outright gets cleared.
			// Transient lookup failures must not log everyone out.
			switch errutil.Code(err) {
			case "SESSION_INVALID", "SESSION_EXPIRED", "SESSION_TOKEN_EMPTY":
				s.clearSessionCookie(w)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLogin redirects anonymous requests to the login page, carrying the
// original path so login can return the user to it.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			loginURL := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, loginURL, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// safeNext validates a post-login redirect target. Only site-relative paths
// are allowed so the login page cannot be used as an open redirect.
func safeNext(next string) string {
	if next == "" {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if u, err := url.Parse(next); err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

// setSessionCookie writes the session token cookie. Remember-me sessions get
// a persistent cookie matching the server-side expiry; others last until the
// browser closes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, remember bool, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.Expires = expiresAt
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie expires the session cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// metricsMiddleware records request counts and latency per route.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequestsTotal.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		s.metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

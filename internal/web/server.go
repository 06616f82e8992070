// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package web exposes the blog over HTTP: registration, login, posts, the
// account page, and the password reset flow.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
	"github.com/thomasdurkin/Flask-Blog/internal/mail"
	"github.com/thomasdurkin/Flask-Blog/internal/observability"
	"github.com/thomasdurkin/Flask-Blog/internal/storage"
)

// Server wires the domain services into HTTP handlers.
type Server struct {
	auth     *auth.Service
	resets   *auth.PasswordResetService
	users    auth.UserRepository
	posts    *blog.Service
	avatars  storage.AvatarStore
	mailer   mail.Mailer
	renderer Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics
	resetURL string
}

// Options configures a Server. Auth, Resets, Users, and Posts are required;
// the rest fall back to sensible defaults.
type Options struct {
	Auth    *auth.Service
	Resets  *auth.PasswordResetService
	Users   auth.UserRepository
	Posts   *blog.Service
	Avatars storage.AvatarStore
	Mailer  mail.Mailer

	// Renderer defaults to JSONRenderer.
	Renderer Renderer

	Logger  *slog.Logger
	Metrics *observability.Metrics

	// ResetURL is the external base URL for password reset links,
	// e.g. "https://blog.example.com/reset_password".
	ResetURL string
}

// NewServer creates a new Server.
func NewServer(opts Options) (*Server, error) {
	if opts.Auth == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if opts.Resets == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("reset service is required")
	}
	if opts.Users == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if opts.Posts == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("blog service is required")
	}

	s := &Server{
		auth:     opts.Auth,
		resets:   opts.Resets,
		users:    opts.Users,
		posts:    opts.Posts,
		avatars:  opts.Avatars,
		mailer:   opts.Mailer,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		resetURL: opts.ResetURL,
	}
	if s.renderer == nil {
		s.renderer = JSONRenderer{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.mailer == nil {
		s.mailer = mail.NewLogMailer(s.logger)
	}
	return s, nil
}

// Routes builds the HTTP handler with all application routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)
	r.Use(s.withCurrentUser)

	r.Get("/", s.handleHome)
	r.Get("/home", s.handleHome)
	r.Get("/about", s.handleAbout)

	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/user/{username}", s.handleUserPosts)

	r.Get("/reset_password", s.handleResetRequestPage)
	r.Post("/reset_password", s.handleResetRequest)
	r.Get("/reset_password/{token}", s.handleResetPasswordPage)
	r.Post("/reset_password/{token}", s.handleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/account", s.handleAccountPage)
		r.Post("/account", s.handleAccountUpdate)

		r.Get("/post/new", s.handlePostNewPage)
		r.Post("/post/new", s.handlePostCreate)
		r.Get("/post/{postID}/update", s.handlePostEditPage)
		r.Post("/post/{postID}/update", s.handlePostUpdate)
		r.Post("/post/{postID}/delete", s.handlePostDelete)
	})

	r.Get("/post/{postID}", s.handlePostGet)

	return r
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	authpg "github.com/thomasdurkin/Flask-Blog/internal/auth/postgres"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
	blogpg "github.com/thomasdurkin/Flask-Blog/internal/blog/postgres"
	"github.com/thomasdurkin/Flask-Blog/internal/config"
	"github.com/thomasdurkin/Flask-Blog/internal/logging"
	"github.com/thomasdurkin/Flask-Blog/internal/mail"
	"github.com/thomasdurkin/Flask-Blog/internal/observability"
	"github.com/thomasdurkin/Flask-Blog/internal/storage"
	"github.com/thomasdurkin/Flask-Blog/internal/store"
	"github.com/thomasdurkin/Flask-Blog/internal/web"
)

const (
	shutdownTimeout      = 5 * time.Second
	sessionSweepInterval = time.Hour
)

// serveConfig holds flags local to the serve command.
type serveConfig struct {
	autoMigrate bool
}

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blog HTTP server",
		Long: `Start the blog HTTP server, connecting to PostgreSQL and serving
the application on the configured listen address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, cfg)
		},
	}

	// Flag defaults mirror config.Default so an unset flag never overrides
	// a value loaded from the config file.
	defaults := config.Default()
	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", true, "run pending database migrations on startup")
	cmd.Flags().String("listen_addr", defaults.ListenAddr, "HTTP listen address")
	cmd.Flags().String("metrics_addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", defaults.DatabaseURL, "PostgreSQL connection URL")
	cmd.Flags().String("log_format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().String("log_level", defaults.LogLevel, "log level (debug, info, warn, error)")

	return cmd
}

// runServe starts the blog server and blocks until shutdown.
func runServe(ctx context.Context, cmd *cobra.Command, serveCfg *serveConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup("flaskblog", version, cfg.LogFormat, cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if serveCfg.autoMigrate {
		if err := runAutoMigrate(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	opts, sessions, err := buildServer(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}

	// Observability server with its own listener, so probes and metrics
	// stay reachable while the app is saturated.
	var obs *observability.Server
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		opts.Metrics = obs.Metrics()

		obsErrs, err := obs.Start()
		if err != nil {
			return err
		}
		go func() {
			if obsErr := <-obsErrs; obsErr != nil {
				slog.Error("observability server error", "error", obsErr)
			}
		}()
		slog.Info("observability server started", "addr", obs.Addr())
	}

	webSrv, err := web.NewServer(*opts)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           webSrv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepExpiredSessions(ctx, sessions)

	serverErrs := make(chan error, 1)
	go func() {
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serverErrs <- serveErr
		}
	}()

	cmd.Println("Blog server started")
	slog.Info("blog server ready", "addr", cfg.ListenAddr)

	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal")
	case serveErr := <-serverErrs:
		slog.Error("HTTP server error", "error", serveErr)
		return oops.Code("SERVE_FAILED").Wrap(serveErr)
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error shutting down HTTP server", "error", err)
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// buildServer assembles the domain services behind the web layer.
func buildServer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*web.Options, auth.SessionRepository, error) {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	users := authpg.NewUserRepository(pool)
	sessions := authpg.NewSessionRepository(pool)

	authSvc, err := auth.NewService(users, sessions, hasher)
	if err != nil {
		return nil, nil, err
	}
	authSvc.SetSessionLifetimes(cfg.SessionTTL, cfg.RememberTTL)

	tokens, err := auth.NewResetTokens([]byte(cfg.SecretKey), cfg.ResetTokenTTL)
	if err != nil {
		return nil, nil, err
	}
	resetSvc, err := auth.NewPasswordResetService(users, tokens, hasher)
	if err != nil {
		return nil, nil, err
	}

	blogSvc, err := blog.NewService(blogpg.NewPostRepository(pool))
	if err != nil {
		return nil, nil, err
	}

	avatars, err := buildAvatarStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	mailer := buildMailer(cfg, logger)

	return &web.Options{
		Auth:     authSvc,
		Resets:   resetSvc,
		Users:    users,
		Posts:    blogSvc,
		Avatars:  avatars,
		Mailer:   mailer,
		Logger:   logger,
		ResetURL: cfg.Mail.ResetURL,
	}, sessions, nil
}

// buildAvatarStore returns nil when no object store is configured. Profile
// picture uploads are then rejected with a validation error.
func buildAvatarStore(ctx context.Context, cfg *config.Config) (storage.AvatarStore, error) {
	if cfg.Avatars.Endpoint == "" || cfg.Avatars.AccessKey == "" {
		slog.Info("avatar storage disabled, no object store configured")
		return nil, nil
	}

	avatars, err := storage.NewMinioAvatarStore(ctx, storage.MinioConfig{
		Endpoint:      cfg.Avatars.Endpoint,
		AccessKey:     cfg.Avatars.AccessKey,
		SecretKey:     cfg.Avatars.SecretKey,
		Bucket:        cfg.Avatars.Bucket,
		UseSSL:        cfg.Avatars.UseSSL,
		PublicBaseURL: cfg.Avatars.PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("avatar storage enabled", "endpoint", cfg.Avatars.Endpoint, "bucket", cfg.Avatars.Bucket)
	return avatars, nil
}

// buildMailer picks SendGrid when configured and the log mailer otherwise.
func buildMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.Mail.DryRun || !cfg.Mail.SendgridOn || cfg.Mail.APIKey == "" {
		slog.Info("outbound mail in dry-run mode, reset links are logged only")
		return mail.NewLogMailer(logger)
	}

	mailer, err := mail.NewSendGridMailer(cfg.Mail.APIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	if err != nil {
		slog.Error("SendGrid misconfigured, falling back to log mailer", "error", err)
		return mail.NewLogMailer(logger)
	}
	slog.Info("outbound mail via SendGrid", "from", cfg.Mail.FromEmail)
	return mailer
}

// runAutoMigrate applies pending migrations before serving.
func runAutoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		slog.Info("database schema up to date")
		return nil
	}

	slog.Info("applying pending migrations", "count", len(pending))
	if err := migrator.Up(); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

// sweepExpiredSessions periodically deletes expired sessions until ctx ends.
func sweepExpiredSessions(ctx context.Context, sessions auth.SessionRepository) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("session sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				slog.Info("expired sessions removed", "count", deleted)
			}
		}
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes reset links to the log instead of sending email.
// Used in development and when no SendGrid key is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// SendPasswordReset logs the reset link.
func (m *LogMailer) SendPasswordReset(_ context.Context, toEmail, username, resetLink string) error {
	m.logger.Info("password reset requested (dry-run mailer)",
		"to", toEmail,
		"username", username,
		"reset_link", resetLink)
	return nil
}

// Compile-time interface check.
var _ Mailer = (*LogMailer)(nil)

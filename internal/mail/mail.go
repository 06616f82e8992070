// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package mail delivers password reset messages.
package mail

import "context"

// Mailer sends transactional email.
type Mailer interface {
	// SendPasswordReset delivers a reset link to the given address.
	SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error
}

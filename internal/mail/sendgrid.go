// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package mail

import (
	"context"
	"fmt"

	"github.com/samber/oops"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const resetSubject = "Password Reset Request"

// SendGridMailer sends email through the SendGrid API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGridMailer creates a new SendGridMailer.
func NewSendGridMailer(apiKey, fromName, fromEmail string) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, oops.Code("MAIL_API_KEY_EMPTY").Errorf("sendgrid api key is required")
	}
	if fromEmail == "" {
		return nil, oops.Code("MAIL_FROM_EMPTY").Errorf("sender address is required")
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendPasswordReset delivers a reset link to the given address.
func (m *SendGridMailer) SendPasswordReset(ctx context.Context, toEmail, username, resetLink string) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(username, toEmail)

	plain := fmt.Sprintf(
		"To reset your password, visit the following link:\n%s\n\nIf you did not make this request then simply ignore this email and no changes will be made.",
		resetLink,
	)
	html := fmt.Sprintf(
		`<p>To reset your password, visit the following link:</p><p><a href=%q>%s</a></p><p>If you did not make this request then simply ignore this email and no changes will be made.</p>`,
		resetLink, resetLink,
	)

	message := sgmail.NewSingleEmail(from, resetSubject, to, plain, html)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "send reset email").
			Wrap(err)
	}
	if response.StatusCode >= 400 {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "send reset email").
			With("status_code", response.StatusCode).
			Errorf("sendgrid rejected the message")
	}
	return nil
}

// Compile-time interface check.
var _ Mailer = (*SendGridMailer)(nil)

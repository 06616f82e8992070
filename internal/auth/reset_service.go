// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// PasswordResetService implements the forgot-password flow with
// self-contained signed tokens.
type PasswordResetService struct {
	users  UserRepository
	tokens *ResetTokens
	hasher PasswordHasher
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(users UserRepository, tokens *ResetTokens, hasher PasswordHasher) (*PasswordResetService, error) {
	if users == nil {
		return nil, oops.Code("RESET_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if tokens == nil {
		return nil, oops.Code("RESET_NIL_DEPENDENCY").Errorf("token issuer is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	return &PasswordResetService{users: users, tokens: tokens, hasher: hasher}, nil
}

// RequestReset issues a reset token for the account registered under email.
// Returns an empty token when no such account exists so callers can present
// the same outward response either way and avoid account enumeration.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return token, nil
}

// VerifyToken checks a reset token and returns the account it belongs to.
// Every token-caused failure (bad signature, expiry, malformed payload,
// unknown user) yields the same RESET_TOKEN_INVALID error.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) (*User, error) {
	userID, ok := s.tokens.Verify(token)
	if !ok {
		return nil, oops.Code("RESET_TOKEN_INVALID").Errorf("invalid or expired reset token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("RESET_TOKEN_INVALID").Errorf("invalid or expired reset token")
		}
		return nil, oops.Code("RESET_VERIFY_FAILED").
			With("operation", "get user").
			Wrap(err)
	}
	return user, nil
}

// ResetPassword verifies a token and replaces the account's password.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) (*User, error) {
	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, oops.Code("RESET_UPDATE_FAILED").
			With("operation", "update password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides registration, login, and session operations.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher

	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewService creates a new Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	return &Service{
		users:       users,
		sessions:    sessions,
		hasher:      hasher,
		sessionTTL:  SessionExpiry,
		rememberTTL: RememberExpiry,
	}, nil
}

// SetSessionLifetimes overrides the default session lifetimes. Values <= 0
// keep the current setting.
func (s *Service) SetSessionLifetimes(session, remember time.Duration) {
	if session > 0 {
		s.sessionTTL = session
	}
	if remember > 0 {
		s.rememberTTL = remember
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a throwaway hash that guards no account.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Register creates a new account with a hashed password.
// Unique-key conflicts surface as DuplicateError naming the field.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := NewUser(username, email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, oops.Code("USER_REGISTER_FAILED").
			With("operation", "create user").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// Login authenticates a user by email and creates a session.
// Returns the session and its plaintext token.
// remember extends the session lifetime from SessionExpiry to RememberExpiry.
// Uses constant-time operations to prevent timing-based account enumeration.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify password (constant-time over the derived key)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	// If user doesn't exist OR password invalid, return same error
	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	expiry := s.sessionTTL
	if remember {
		expiry = s.rememberTTL
	}
	session, err := NewSession(user.ID, tokenHash, remember, time.Now().Add(expiry))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return session, token, nil
}

// Logout invalidates a session.
func (s *Service) Logout(ctx context.Context, sessionID ulid.ULID) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("SESSION_NOT_FOUND").
				With("session_id", sessionID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			With("session_id", sessionID.String()).
			Wrap(err)
	}
	return nil
}

// CurrentUser resolves a session token to its user.
// The user record is loaded fresh on every call; nothing is cached across
// requests. Also updates the session's LastSeenAt timestamp.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, *Session, error) {
	if token == "" {
		return nil, nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashSessionToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		return nil, nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session user").
			Wrap(err)
	}

	// Update last seen timestamp (non-blocking, ignore errors)
	_ = s.sessions.UpdateLastSeen(ctx, session.ID, time.Now()) //nolint:errcheck // Best effort, resolution succeeds regardless

	return user, session, nil
}

// UpdateAccount changes a user's username, email, and optionally avatar.
// avatarFilename is applied only when non-empty.
// Unique-key conflicts surface as DuplicateError naming the field.
func (s *Service) UpdateAccount(ctx context.Context, userID ulid.ULID, username, email, avatarFilename string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("user_id", userID.String()).
				Wrap(err)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "get user").
			Wrap(err)
	}

	user.Username = username
	user.Email = email
	if avatarFilename != "" {
		user.AvatarFilename = avatarFilename
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return user, nil
}

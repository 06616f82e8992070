// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/thomasdurkin/Flask-Blog/internal/ids"
)

// DefaultResetTokenTTL is the lifetime of a password reset token.
const DefaultResetTokenTTL = 1800 * time.Second

// resetClaims is the signed payload of a reset token: the user id plus
// the standard issued-at and expiry claims.
type resetClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// ResetTokens issues and verifies stateless password reset tokens.
//
// Tokens are self-contained HS256-signed payloads; there is no server-side
// record and therefore no revocation. A leaked token stays valid until its
// expiry. That is an accepted limitation of the stateless design.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokens creates a ResetTokens signer.
// ttl values <= 0 fall back to DefaultResetTokenTTL.
func NewResetTokens(secret []byte, ttl time.Duration) (*ResetTokens, error) {
	if len(secret) == 0 {
		return nil, oops.Code("RESET_SECRET_EMPTY").Errorf("signing secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokens{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (r *ResetTokens) TTL() time.Duration {
	return r.ttl
}

// Issue signs a reset token for the given user id, expiring after the
// configured TTL.
func (r *ResetTokens) Issue(userID ulid.ULID) (string, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return "", oops.Code("RESET_INVALID_USER").Errorf("user ID cannot be zero")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
		UserID: userID.String(),
	})

	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", oops.Code("RESET_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded user id.
// All failures (bad signature, malformed payload, expired) report the same
// way: ok == false, with no distinction of cause.
func (r *ResetTokens) Verify(tokenString string) (ulid.ULID, bool) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return ulid.ULID{}, false
	}

	userID, err := ids.Parse(claims.UserID)
	if err != nil {
		return ulid.ULID{}, false
	}
	return userID, true
}

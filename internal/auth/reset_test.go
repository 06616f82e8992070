// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/ids"
	"github.com/thomasdurkin/Flask-Blog/pkg/errutil"
)

func TestNewResetTokens_EmptySecret(t *testing.T) {
	_, err := auth.NewResetTokens(nil, time.Hour)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "RESET_SECRET_EMPTY")
}

func TestNewResetTokens_TTLFallback(t *testing.T) {
	tokens, err := auth.NewResetTokens([]byte("secret"), 0)
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultResetTokenTTL, tokens.TTL())
}

func TestResetTokens_IssueAndVerify(t *testing.T) {
	tokens, err := auth.NewResetTokens([]byte("super-secret"), time.Hour)
	require.NoError(t, err)

	userID := ids.New()
	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, ok := tokens.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestResetTokens_Issue_ZeroUser(t *testing.T) {
	tokens, err := auth.NewResetTokens([]byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = tokens.Issue(ulid.ULID{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "RESET_INVALID_USER")
}

func TestResetTokens_Verify_Expired(t *testing.T) {
	tokens, err := auth.NewResetTokens([]byte("secret"), time.Nanosecond)
	require.NoError(t, err)

	token, err := tokens.Issue(ids.New())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, ok := tokens.Verify(token)
	assert.False(t, ok, "token must not verify after expiry")
}

func TestResetTokens_Verify_WrongSecret(t *testing.T) {
	signer, err := auth.NewResetTokens([]byte("right-secret"), time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewResetTokens([]byte("wrong-secret"), time.Hour)
	require.NoError(t, err)

	token, err := signer.Issue(ids.New())
	require.NoError(t, err)

	_, ok := verifier.Verify(token)
	assert.False(t, ok, "token signed with a different secret must not verify")
}

func TestResetTokens_Verify_Malformed(t *testing.T) {
	tokens, err := auth.NewResetTokens([]byte("secret"), time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, ok := tokens.Verify(tok)
		assert.False(t, ok, "malformed token %q must not verify", tok)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := auth.NewBcryptHasher(4) // min cost keeps the test fast

	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected bcrypt hash, got %q", hash)
	assert.NotContains(t, hash, "pw123", "hash must not contain the plaintext")

	ok, err := hasher.Verify("pw123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("pw124", hash)
	require.NoError(t, err)
	assert.False(t, ok, "different plaintext must not verify")
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	_, err := hasher.Hash("")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	h1, err := hasher.Hash("same-password")
	require.NoError(t, err)
	h2, err := hasher.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "each hash must carry a fresh salt")
}

func TestBcryptHasher_InvalidHash(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	ok, err := hasher.Verify("pw123", "not-a-bcrypt-hash")
	assert.False(t, ok)
	require.Error(t, err)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	// Out-of-range costs should not panic, and hashing should still work.
	hasher := auth.NewBcryptHasher(99)
	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	ok, err := hasher.Verify("pw123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails the test unless err is an oops error whose code is
// the expected one.
func AssertErrorCode(t *testing.T, err error, want string) {
	t.Helper()
	_, ok := oops.AsOops(err)
	require.True(t, ok, "want an oops error, got %T: %v", err, err)
	assert.Equal(t, want, Code(err))
}

// AssertErrorContext fails the test unless err is an oops error whose
// context holds the given value under key.
func AssertErrorContext(t *testing.T, err error, key string, want any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "want an oops error, got %T: %v", err, err)
	got, present := oopsErr.Context()[key]
	require.True(t, present, "error context has no key %q", key)
	assert.Equal(t, want, got)
}

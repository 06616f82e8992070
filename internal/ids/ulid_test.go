// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Monotonic(t *testing.T) {
	a := New()
	b := New()
	assert.Equal(t, -1, a.Compare(b), "later ULID must sort after earlier one")
}

func TestParse_RoundTrip(t *testing.T) {
	id := New()
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("not-a-ulid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ULID")
}

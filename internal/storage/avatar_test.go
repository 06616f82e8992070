// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/pkg/errutil"
)

func TestRandomFilename(t *testing.T) {
	tests := []struct {
		name     string
		ext      string
		wantExt  string
		wantCode string
	}{
		{name: "jpg", ext: ".jpg", wantExt: ".jpg"},
		{name: "jpeg", ext: ".jpeg", wantExt: ".jpeg"},
		{name: "png", ext: ".png", wantExt: ".png"},
		{name: "uppercase extension", ext: ".PNG", wantExt: ".png"},
		{name: "gif rejected", ext: ".gif", wantCode: "AVATAR_INVALID_EXT"},
		{name: "executable rejected", ext: ".exe", wantCode: "AVATAR_INVALID_EXT"},
		{name: "empty rejected", wantCode: "AVATAR_INVALID_EXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename, err := RandomFilename(tt.ext)
			if tt.wantCode != "" {
				errutil.AssertErrorCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(filename, tt.wantExt))
			// 8 random bytes hex-encoded plus the extension.
			assert.Len(t, filename, 2*filenameBytes+len(tt.wantExt))
		})
	}
}

func TestRandomFilename_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		filename, err := RandomFilename(".png")
		require.NoError(t, err)
		_, dup := seen[filename]
		require.False(t, dup, "generated duplicate filename %s", filename)
		seen[filename] = struct{}{}
	}
}

func TestMinioAvatarStore_URL(t *testing.T) {
	s := &MinioAvatarStore{publicBaseURL: "/static/profile_pics"}
	assert.Equal(t, "/static/profile_pics/abc123.png", s.URL("abc123.png"))

	s = &MinioAvatarStore{publicBaseURL: "https://cdn.example.com/avatars"}
	assert.Equal(t, "https://cdn.example.com/avatars/abc123.png", s.URL("abc123.png"))
}

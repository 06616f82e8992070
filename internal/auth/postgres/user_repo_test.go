// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/auth/postgres"
	"github.com/thomasdurkin/Flask-Blog/internal/ids"
)

func newStoredUser(t *testing.T, repo *postgres.UserRepository, username, email string) *auth.User {
	t.Helper()
	ctx := context.Background()

	user, err := auth.NewUser(username, email, "$2a$04$abcdefghijklmnopqrstuv")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	t.Cleanup(func() {
		_, _ = testPool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID.String())
	})
	return user
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(testPool)

	t.Run("creates new user", func(t *testing.T) {
		user := newStoredUser(t, repo, "create_user", "create_user@example.com")

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		assert.Equal(t, user.Username, stored.Username)
		assert.Equal(t, user.Email, stored.Email)
		assert.Equal(t, auth.DefaultAvatar, stored.AvatarFilename)
	})

	t.Run("duplicate username reports the field", func(t *testing.T) {
		newStoredUser(t, repo, "dup_name", "dup_name@example.com")

		clash, err := auth.NewUser("dup_name", "other@example.com", "$2a$04$abcdefghijklmnopqrstuv")
		require.NoError(t, err)

		err = repo.Create(ctx, clash)
		require.Error(t, err)

		var dup *auth.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)
	})

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		newStoredUser(t, repo, "dup_mail", "dup_mail@example.com")

		clash, err := auth.NewUser("other_name", "DUP_MAIL@example.com", "$2a$04$abcdefghijklmnopqrstuv")
		require.NoError(t, err)

		err = repo.Create(ctx, clash)
		require.Error(t, err)

		var dup *auth.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(testPool)

	user := newStoredUser(t, repo, "lookup_user", "lookup_user@example.com")

	t.Run("by username ignores case", func(t *testing.T) {
		stored, err := repo.GetByUsername(ctx, "LOOKUP_USER")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("by email ignores case", func(t *testing.T) {
		stored, err := repo.GetByEmail(ctx, "Lookup_User@Example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, ids.New())
		require.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(testPool)

	t.Run("updates profile fields", func(t *testing.T) {
		user := newStoredUser(t, repo, "update_user", "update_user@example.com")

		user.Username = "updated_user"
		user.AvatarFilename = "a1b2c3d4.png"
		require.NoError(t, repo.Update(ctx, user))

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated_user", stored.Username)
		assert.Equal(t, "a1b2c3d4.png", stored.AvatarFilename)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, err := auth.NewUser("ghost", "ghost@example.com", "$2a$04$abcdefghijklmnopqrstuv")
		require.NoError(t, err)

		err = repo.Update(ctx, ghost)
		require.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewUserRepository(testPool)

	t.Run("replaces only the hash", func(t *testing.T) {
		user := newStoredUser(t, repo, "pw_user", "pw_user@example.com")

		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "$2a$04$newhashnewhashnewhashn"))

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$04$newhashnewhashnewhashn", stored.PasswordHash)
		assert.Equal(t, user.Username, stored.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.UpdatePassword(ctx, ids.New(), "$2a$04$newhashnewhashnewhashn")
		require.ErrorIs(t, err, auth.ErrNotFound)
	})
}

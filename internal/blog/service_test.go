// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package blog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/internal/blog"
	"github.com/thomasdurkin/Flask-Blog/internal/blog/mocks"
	"github.com/thomasdurkin/Flask-Blog/internal/ids"
	"github.com/thomasdurkin/Flask-Blog/pkg/errutil"
)

func newTestService(t *testing.T) (*blog.Service, *mocks.MockPostRepository) {
	t.Helper()

	posts := mocks.NewMockPostRepository(t)
	svc, err := blog.NewService(posts)
	require.NoError(t, err)
	return svc, posts
}

func TestNewService(t *testing.T) {
	svc, err := blog.NewService(nil)
	errutil.AssertErrorCode(t, err, "BLOG_NIL_DEPENDENCY")
	assert.Nil(t, svc)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid post", func(t *testing.T) {
		svc, posts := newTestService(t)
		author := ids.New()

		posts.On("Create", ctx, mock.AnythingOfType("*blog.Post")).Return(nil)

		post, err := svc.Create(ctx, author, "First Post", "Hello there.")
		require.NoError(t, err)
		assert.Equal(t, author, post.AuthorID)
		assert.Equal(t, "First Post", post.Title)
	})

	t.Run("rejects invalid title without touching the store", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, ids.New(), "", "Hello there.")
		errutil.AssertErrorCode(t, err, "POST_INVALID_TITLE")
	})

	t.Run("wraps store failures", func(t *testing.T) {
		svc, posts := newTestService(t)

		posts.On("Create", ctx, mock.AnythingOfType("*blog.Post")).
			Return(errors.New("connection refused"))

		_, err := svc.Create(ctx, ids.New(), "First Post", "Hello there.")
		errutil.AssertErrorCode(t, err, "POST_CREATE_FAILED")
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the post", func(t *testing.T) {
		svc, posts := newTestService(t)
		post := &blog.Post{ID: ids.New(), AuthorID: ids.New(), Title: "t", Content: "c", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)

		got, err := svc.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc, posts := newTestService(t)
		id := ids.New()

		posts.On("GetByID", ctx, id).Return(nil, blog.ErrNotFound)

		_, err := svc.Get(ctx, id)
		require.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("author updates own post", func(t *testing.T) {
		svc, posts := newTestService(t)
		author := ids.New()
		post := &blog.Post{ID: ids.New(), AuthorID: author, Title: "old", Content: "old body", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)
		posts.On("Update", ctx, mock.AnythingOfType("*blog.Post")).Return(nil)

		got, err := svc.Update(ctx, author, post.ID, "new", "new body")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Title)
		assert.Equal(t, "new body", got.Content)
	})

	t.Run("non-author is forbidden regardless of input", func(t *testing.T) {
		svc, posts := newTestService(t)
		post := &blog.Post{ID: ids.New(), AuthorID: ids.New(), Title: "old", Content: "old body", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)

		// Invalid title too: the ownership check must win.
		_, err := svc.Update(ctx, ids.New(), post.ID, "", "")
		errutil.AssertErrorCode(t, err, "POST_FORBIDDEN")
		require.ErrorIs(t, err, blog.ErrForbidden)
	})

	t.Run("author with invalid title", func(t *testing.T) {
		svc, posts := newTestService(t)
		author := ids.New()
		post := &blog.Post{ID: ids.New(), AuthorID: author, Title: "old", Content: "old body", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)

		_, err := svc.Update(ctx, author, post.ID, "", "new body")
		errutil.AssertErrorCode(t, err, "POST_INVALID_TITLE")
	})

	t.Run("unknown post", func(t *testing.T) {
		svc, posts := newTestService(t)
		id := ids.New()

		posts.On("GetByID", ctx, id).Return(nil, blog.ErrNotFound)

		_, err := svc.Update(ctx, ids.New(), id, "new", "new body")
		require.ErrorIs(t, err, blog.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes own post", func(t *testing.T) {
		svc, posts := newTestService(t)
		author := ids.New()
		post := &blog.Post{ID: ids.New(), AuthorID: author, Title: "t", Content: "c", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)
		posts.On("Delete", ctx, post.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, author, post.ID))
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		svc, posts := newTestService(t)
		post := &blog.Post{ID: ids.New(), AuthorID: ids.New(), Title: "t", Content: "c", CreatedAt: time.Now()}

		posts.On("GetByID", ctx, post.ID).Return(post, nil)

		err := svc.Delete(ctx, ids.New(), post.ID)
		require.ErrorIs(t, err, blog.ErrForbidden)
	})
}

func TestService_Listing(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps page below one", func(t *testing.T) {
		svc, posts := newTestService(t)
		page := &blog.Page{Number: 1, PerPage: blog.PageSize, TotalPages: 1}

		posts.On("ListAll", ctx, 1).Return(page, nil)

		got, err := svc.ListAll(ctx, -3)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Number)
	})

	t.Run("lists by author", func(t *testing.T) {
		svc, posts := newTestService(t)
		author := ids.New()
		page := &blog.Page{Number: 2, PerPage: blog.PageSize, TotalPages: 3}

		posts.On("ListByAuthor", ctx, author, 2).Return(page, nil)

		got, err := svc.ListByAuthor(ctx, author, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Number)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		svc, posts := newTestService(t)

		posts.On("ListAll", ctx, 1).Return(nil, errors.New("connection refused"))

		_, err := svc.ListAll(ctx, 1)
		errutil.AssertErrorCode(t, err, "POST_LIST_FAILED")
	})
}

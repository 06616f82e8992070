// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package blog

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides post operations with ownership enforcement.
type Service struct {
	posts PostRepository
}

// NewService creates a new Service.
func NewService(posts PostRepository) (*Service, error) {
	if posts == nil {
		return nil, oops.Code("BLOG_NIL_DEPENDENCY").Errorf("posts repository is required")
	}
	return &Service{posts: posts}, nil
}

// Create stores a new post owned by authorID.
func (s *Service) Create(ctx context.Context, authorID ulid.ULID, title, content string) (*Post, error) {
	post, err := NewPost(authorID, title, content)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("operation", "create post").
			With("author_id", authorID.String()).
			Wrap(err)
	}
	return post, nil
}

// Get retrieves a post by ID.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post").
			With("id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// Update replaces the title and content of a post.
// Only the post's author may update it; the ownership check runs before any
// input validation so a non-author always sees a forbidden error.
func (s *Service) Update(ctx context.Context, actorID, postID ulid.ULID, title, content string) (*Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID.Compare(actorID) != 0 {
		return nil, oops.Code("POST_FORBIDDEN").
			With("post_id", postID.String()).
			With("actor_id", actorID.String()).
			Wrap(ErrForbidden)
	}

	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("id", postID.String()).
			Wrap(err)
	}
	return post, nil
}

// Delete removes a post. Only the post's author may delete it.
func (s *Service) Delete(ctx context.Context, actorID, postID ulid.ULID) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID.Compare(actorID) != 0 {
		return oops.Code("POST_FORBIDDEN").
			With("post_id", postID.String()).
			With("actor_id", actorID.String()).
			Wrap(ErrForbidden)
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("id", postID.String()).
			Wrap(err)
	}
	return nil
}

// ListAll returns one page of all posts, newest first.
// Page numbers below one are treated as the first page.
func (s *Service) ListAll(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	result, err := s.posts.ListAll(ctx, page)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts").
			With("page", page).
			Wrap(err)
	}
	return result, nil
}

// ListByAuthor returns one page of an author's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID ulid.ULID, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	result, err := s.posts.ListByAuthor(ctx, authorID, page)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts by author").
			With("author_id", authorID.String()).
			With("page", page).
			Wrap(err)
	}
	return result, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/thomasdurkin/Flask-Blog/internal/ids"
)

const (
	// MaxTitleLength is the maximum post title length.
	MaxTitleLength = 100

	// PageSize is the number of posts per listing page.
	PageSize = 4
)

// Sentinel errors for post operations.
var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("not the post author")
)

// Post is a single blog entry.
type Post struct {
	ID        ulid.ULID
	AuthorID  ulid.ULID
	Title     string
	Content   string
	CreatedAt time.Time
}

// NewPost creates a validated post owned by authorID.
func NewPost(authorID ulid.ULID, title, content string) (*Post, error) {
	if authorID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("POST_INVALID_AUTHOR").Errorf("author id cannot be zero")
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	return &Post{
		ID:        ids.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ValidateTitle checks title constraints.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return oops.Code("POST_INVALID_TITLE").Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return oops.Code("POST_INVALID_TITLE").
			With("max_length", MaxTitleLength).
			Errorf("title exceeds %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateContent checks content constraints.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return oops.Code("POST_INVALID_CONTENT").Errorf("content cannot be empty")
	}
	return nil
}

// Page is one page of a post listing, newest first.
type Page struct {
	Posts      []*Post
	Number     int
	PerPage    int
	TotalPosts int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p *Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id ulid.ULID) (*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id ulid.ULID) error

	// ListAll returns one page of all posts ordered newest first, with the
	// post ID breaking ties between posts created at the same instant.
	ListAll(ctx context.Context, page int) (*Page, error)

	// ListByAuthor returns one page of a single author's posts, ordered the
	// same way as ListAll.
	ListByAuthor(ctx context.Context, authorID ulid.ULID, page int) (*Page, error)
}

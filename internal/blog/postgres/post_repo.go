// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package postgres implements blog repositories backed by PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/thomasdurkin/Flask-Blog/internal/blog"
)

// poolIface abstracts pgxpool.Pool for testing with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostRepository implements blog.PostRepository using PostgreSQL.
type PostRepository struct {
	pool poolIface
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool poolIface) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, post *blog.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (id, author_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		post.ID.String(),
		post.AuthorID.String(),
		post.Title,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			With("author_id", post.AuthorID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id ulid.ULID) (*blog.Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, author_id, title, content, created_at
		FROM posts
		WHERE id = $1
	`, id.String())

	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("id", id.String()).
			Wrap(blog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post by id").
			With("id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// Update replaces the title and content of a post.
func (r *PostRepository) Update(ctx context.Context, post *blog.Post) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE posts SET title = $2, content = $3
		WHERE id = $1
	`, post.ID.String(), post.Title, post.Content)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("id", post.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", post.ID.String()).
			Wrap(blog.ErrNotFound)
	}
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM posts WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", id.String()).
			Wrap(blog.ErrNotFound)
	}
	return nil
}

// ListAll returns one page of all posts, newest first.
func (r *PostRepository) ListAll(ctx context.Context, page int) (*blog.Page, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "count posts").
			Wrap(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, blog.PageSize, (page-1)*blog.PageSize)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts").
			With("page", page).
			Wrap(err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	return buildPage(posts, page, total), nil
}

// ListByAuthor returns one page of a single author's posts, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID ulid.ULID, page int) (*blog.Page, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID.String()).Scan(&total)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "count posts by author").
			With("author_id", authorID.String()).
			Wrap(err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, content, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, authorID.String(), blog.PageSize, (page-1)*blog.PageSize)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts by author").
			With("author_id", authorID.String()).
			With("page", page).
			Wrap(err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	return buildPage(posts, page, total), nil
}

// buildPage assembles pagination metadata around one page of posts.
func buildPage(posts []*blog.Post, page, total int) *blog.Page {
	totalPages := (total + blog.PageSize - 1) / blog.PageSize
	return &blog.Page{
		Posts:      posts,
		Number:     page,
		PerPage:    blog.PageSize,
		TotalPosts: total,
		TotalPages: totalPages,
	}
}

// collectPosts drains a rows iterator into posts.
func collectPosts(rows pgx.Rows) ([]*blog.Post, error) {
	var posts []*blog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_SCAN_FAILED").
				With("operation", "scan post row").
				Wrap(err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_ROWS_ERROR").
			With("operation", "iterate post rows").
			Wrap(err)
	}
	return posts, nil
}

// scanPost scans a single row into a Post.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPost(row pgx.Row) (*blog.Post, error) {
	var (
		idStr       string
		authorIDStr string
		title       string
		content     string
		createdAt   time.Time
	)

	err := row.Scan(&idStr, &authorIDStr, &title, &content, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("POST_SCAN_FAILED").
			With("operation", "scan post").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_ID").
			With("operation", "parse post id").
			With("id", idStr).
			Wrap(err)
	}

	authorID, err := ulid.Parse(authorIDStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_AUTHOR_ID").
			With("operation", "parse author id").
			With("author_id", authorIDStr).
			Wrap(err)
	}

	return &blog.Post{
		ID:        id,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ blog.PostRepository = (*PostRepository)(nil)

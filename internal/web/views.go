// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"time"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
)

// defaultAvatarBase serves avatars when no object store is configured.
const defaultAvatarBase = "/static/profile_pics"

type userView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type postView struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type pageView struct {
	Posts      []postView `json:"posts"`
	Number     int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPosts int        `json:"total_posts"`
	TotalPages int        `json:"total_pages"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
}

func (s *Server) userViewOf(user *auth.User) userView {
	avatarURL := defaultAvatarBase + "/" + user.AvatarFilename
	if s.avatars != nil {
		avatarURL = s.avatars.URL(user.AvatarFilename)
	}
	return userView{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: avatarURL,
	}
}

func postViewOf(post *blog.Post) postView {
	return postView{
		ID:        post.ID.String(),
		AuthorID:  post.AuthorID.String(),
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}
}

func pageViewOf(page *blog.Page) pageView {
	posts := make([]postView, 0, len(page.Posts))
	for _, post := range page.Posts {
		posts = append(posts, postViewOf(post))
	}
	return pageView{
		Posts:      posts,
		Number:     page.Number,
		PerPage:    page.PerPage,
		TotalPosts: page.TotalPosts,
		TotalPages: page.TotalPages,
		HasPrev:    page.HasPrev(),
		HasNext:    page.HasNext(),
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/thomasdurkin/Flask-Blog/internal/ids"
)

// pageParam reads the ?page= query parameter, defaulting to the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// postIDParam parses the post ID from the URL. A malformed ID behaves like a
// missing post.
func postIDParam(r *http.Request) (ulid.ULID, bool) {
	id, err := ids.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

// handleHome renders one page of all posts, newest first.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, err := s.posts.ListAll(r.Context(), pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "home", pageViewOf(page))
}

// handleAbout renders the about page.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, "about", map[string]string{"title": "About"})
}

// handlePostGet renders a single post.
func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "post", postViewOf(post))
}

// handlePostNewPage renders the empty new-post form.
func (s *Server) handlePostNewPage(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, "create_post", nil)
}

// handlePostEditPage renders the post form prefilled for editing. Only the
// author may open it.
func (s *Server) handlePostEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if post.AuthorID != currentUser(r).ID {
		s.renderer.Error(w, r, http.StatusForbidden, "FORBIDDEN", "you do not own this post", nil)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "create_post", postViewOf(post))
}

// handlePostCreate stores a new post owned by the current user.
func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	form, fields := parsePostForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid post", fields)
		return
	}

	post, err := s.posts.Create(r.Context(), currentUser(r).ID, form.Title, form.Content)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.PostsTotal.Inc()
	}
	s.renderer.Render(w, r, http.StatusCreated, "post", postViewOf(post))
}

// handlePostUpdate replaces a post's title and content. Only the author may
// do this.
func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	form, fields := parsePostForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid post", fields)
		return
	}

	post, err := s.posts.Update(r.Context(), currentUser(r).ID, id, form.Title, form.Content)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "post", postViewOf(post))
}

// handlePostDelete removes a post. Only the author may do this.
func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		s.renderer.Error(w, r, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}

	if err := s.posts.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUserPosts renders one page of a single author's posts.
func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	page, err := s.posts.ListByAuthor(r.Context(), user.ID, pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, "user_posts", map[string]any{
		"username": user.Username,
		"page":     pageViewOf(page),
	})
}

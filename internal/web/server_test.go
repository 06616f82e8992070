// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
	"github.com/thomasdurkin/Flask-Blog/internal/web"
)

// memUserRepo is an in-memory auth.UserRepository with the same
// duplicate-key behavior as the PostgreSQL implementation.
type memUserRepo struct {
	mu    sync.Mutex
	users map[ulid.ULID]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *memUserRepo) duplicateOf(candidate *auth.User) *auth.DuplicateError {
	for _, u := range r.users {
		if u.ID.Compare(candidate.ID) == 0 {
			continue
		}
		if strings.EqualFold(u.Username, candidate.Username) {
			return &auth.DuplicateError{Field: "username"}
		}
		if strings.EqualFold(u.Email, candidate.Email) {
			return &auth.DuplicateError{Field: "email"}
		}
	}
	return nil
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dup := r.duplicateOf(user); dup != nil {
		return dup
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return auth.ErrNotFound
	}
	if dup := r.duplicateOf(user); dup != nil {
		return dup
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// memSessionRepo is an in-memory auth.SessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session

	// lookupErr, when set, is returned from GetByTokenHash to simulate a
	// store outage.
	lookupErr error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.TokenHash] = &clone
	return nil
}

func (r *memSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	if s, ok := r.sessions[tokenHash]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, auth.ErrNotFound
}

func (r *memSessionRepo) setLookupErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookupErr = err
}

func (r *memSessionRepo) UpdateLastSeen(_ context.Context, id ulid.ULID, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID.Compare(id) == 0 {
			s.LastSeenAt = lastSeen
			return nil
		}
	}
	return auth.ErrNotFound
}

func (r *memSessionRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.ID.Compare(id) == 0 {
			delete(r.sessions, hash)
			return nil
		}
	}
	return auth.ErrNotFound
}

func (r *memSessionRepo) DeleteByUser(_ context.Context, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.UserID.Compare(userID) == 0 {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	now := time.Now()
	for hash, s := range r.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.sessions, hash)
			count++
		}
	}
	return count, nil
}

// memPostRepo is an in-memory blog.PostRepository with the same ordering
// and pagination behavior as the PostgreSQL implementation.
type memPostRepo struct {
	mu    sync.Mutex
	posts []*blog.Post
}

func (r *memPostRepo) Create(_ context.Context, post *blog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *post
	r.posts = append(r.posts, &clone)
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id ulid.ULID) (*blog.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Compare(id) == 0 {
			clone := *p
			return &clone, nil
		}
	}
	return nil, blog.ErrNotFound
}

func (r *memPostRepo) Update(_ context.Context, post *blog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Compare(post.ID) == 0 {
			clone := *post
			r.posts[i] = &clone
			return nil
		}
	}
	return blog.ErrNotFound
}

func (r *memPostRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Compare(id) == 0 {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return blog.ErrNotFound
}

func (r *memPostRepo) page(matching []*blog.Post, pageNum int) *blog.Page {
	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
			return matching[i].CreatedAt.After(matching[j].CreatedAt)
		}
		return matching[i].ID.Compare(matching[j].ID) > 0
	})

	total := len(matching)
	start := (pageNum - 1) * blog.PageSize
	if start > total {
		start = total
	}
	end := start + blog.PageSize
	if end > total {
		end = total
	}

	return &blog.Page{
		Posts:      matching[start:end],
		Number:     pageNum,
		PerPage:    blog.PageSize,
		TotalPosts: total,
		TotalPages: (total + blog.PageSize - 1) / blog.PageSize,
	}
}

func (r *memPostRepo) ListAll(_ context.Context, pageNum int) (*blog.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matching := make([]*blog.Post, len(r.posts))
	copy(matching, r.posts)
	return r.page(matching, pageNum), nil
}

func (r *memPostRepo) ListByAuthor(_ context.Context, authorID ulid.ULID, pageNum int) (*blog.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matching []*blog.Post
	for _, p := range r.posts {
		if p.AuthorID.Compare(authorID) == 0 {
			matching = append(matching, p)
		}
	}
	return r.page(matching, pageNum), nil
}

// recordingMailer captures reset emails instead of sending them.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	links []string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, toEmail, _ string, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	m.links = append(m.links, resetLink)
	return nil
}

func (m *recordingMailer) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// testApp bundles a running server and its collaborators.
type testApp struct {
	server   *httptest.Server
	users    *memUserRepo
	mailer   *recordingMailer
	sessions *memSessionRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	hasher := auth.NewBcryptHasher(4)

	authSvc, err := auth.NewService(users, sessions, hasher)
	require.NoError(t, err)

	tokens, err := auth.NewResetTokens([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)
	resetSvc, err := auth.NewPasswordResetService(users, tokens, hasher)
	require.NoError(t, err)

	postSvc, err := blog.NewService(&memPostRepo{})
	require.NoError(t, err)

	mailer := &recordingMailer{}

	srv, err := web.NewServer(web.Options{
		Auth:     authSvc,
		Resets:   resetSvc,
		Users:    users,
		Posts:    postSvc,
		Mailer:   mailer,
		ResetURL: "https://blog.example.com/reset_password",
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &testApp{server: ts, users: users, mailer: mailer, sessions: sessions}
}

// newClient returns a client with a cookie jar that never follows redirects,
// so tests can assert on statuses and Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()

	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, client *http.Client, target string) *http.Response {
	t.Helper()

	resp, err := client.Get(target)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func register(t *testing.T, app *testApp, client *http.Client, username, email, password string) {
	t.Helper()

	resp := postForm(t, client, app.server.URL+"/register", url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func login(t *testing.T, app *testApp, client *http.Client, email, password string) *http.Response {
	t.Helper()

	return postForm(t, client, app.server.URL+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

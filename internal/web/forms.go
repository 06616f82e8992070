// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/thomasdurkin/Flask-Blog/internal/auth"
	"github.com/thomasdurkin/Flask-Blog/internal/blog"
)

// maxAvatarBytes caps profile picture uploads.
const maxAvatarBytes = 5 << 20

// registerForm carries the sign-up fields.
type registerForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func parseRegisterForm(r *http.Request) (registerForm, map[string]string) {
	form := registerForm{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	fields := make(map[string]string)
	if err := auth.ValidateUsername(form.Username); err != nil {
		fields["username"] = fmt.Sprintf("must be %d to %d characters, starting with a letter",
			auth.MinUsernameLength, auth.MaxUsernameLength)
	}
	if err := auth.ValidateEmail(form.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if form.Password == "" {
		fields["password"] = "cannot be empty"
	}
	if form.ConfirmPassword != form.Password {
		fields["confirm_password"] = "must match password"
	}

	if len(fields) == 0 {
		return form, nil
	}
	return form, fields
}

// loginForm carries the sign-in fields.
type loginForm struct {
	Email    string
	Password string
	Remember bool
}

func parseLoginForm(r *http.Request) (loginForm, map[string]string) {
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}

	fields := make(map[string]string)
	if form.Email == "" {
		fields["email"] = "cannot be empty"
	}
	if form.Password == "" {
		fields["password"] = "cannot be empty"
	}

	if len(fields) == 0 {
		return form, nil
	}
	return form, fields
}

// postForm carries post title and content.
type postForm struct {
	Title   string
	Content string
}

func parsePostForm(r *http.Request) (postForm, map[string]string) {
	form := postForm{
		Title:   strings.TrimSpace(r.PostFormValue("title")),
		Content: r.PostFormValue("content"),
	}

	fields := make(map[string]string)
	if err := blog.ValidateTitle(form.Title); err != nil {
		fields["title"] = fmt.Sprintf("must be 1 to %d characters", blog.MaxTitleLength)
	}
	if err := blog.ValidateContent(form.Content); err != nil {
		fields["content"] = "cannot be empty"
	}

	if len(fields) == 0 {
		return form, nil
	}
	return form, fields
}

// accountForm carries the profile update fields plus an optional picture.
type accountForm struct {
	Username   string
	Email      string
	Picture    []byte
	PictureExt string
}

func parseAccountForm(r *http.Request) (accountForm, map[string]string, error) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		// Plain form posts without a picture are also accepted.
		if err := r.ParseForm(); err != nil {
			return accountForm{}, nil, err
		}
	}

	form := accountForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}

	fields := make(map[string]string)
	if err := auth.ValidateUsername(form.Username); err != nil {
		fields["username"] = fmt.Sprintf("must be %d to %d characters, starting with a letter",
			auth.MinUsernameLength, auth.MaxUsernameLength)
	}
	if err := auth.ValidateEmail(form.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("picture")
		if err == nil {
			defer file.Close() //nolint:errcheck // read-only temp file

			data, readErr := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
			if readErr != nil {
				return accountForm{}, nil, readErr
			}
			if len(data) > maxAvatarBytes {
				fields["picture"] = "file too large"
			} else {
				form.Picture = data
				form.PictureExt = strings.ToLower(filepath.Ext(header.Filename))
			}
		}
	}

	if len(fields) == 0 {
		return form, nil, nil
	}
	return form, fields, nil
}

// resetRequestForm carries the forgot-password email field.
type resetRequestForm struct {
	Email string
}

func parseResetRequestForm(r *http.Request) (resetRequestForm, map[string]string) {
	form := resetRequestForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if form.Email == "" {
		return form, map[string]string{"email": "cannot be empty"}
	}
	return form, nil
}

// resetPasswordForm carries the new password fields.
type resetPasswordForm struct {
	Password        string
	ConfirmPassword string
}

func parseResetPasswordForm(r *http.Request) (resetPasswordForm, map[string]string) {
	form := resetPasswordForm{
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	fields := make(map[string]string)
	if form.Password == "" {
		fields["password"] = "cannot be empty"
	}
	if form.ConfirmPassword != form.Password {
		fields["confirm_password"] = "must match password"
	}

	if len(fields) == 0 {
		return form, nil
	}
	return form, fields
}

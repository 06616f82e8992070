// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleRegisterPage renders the registration form. Logged-in users are sent
// home instead.
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "register", nil)
}

// handleRegister creates an account and sends the user to the login page.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, fields := parseRegisterForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid registration details", fields)
		return
	}

	user, err := s.auth.Register(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "account created",
		"user_id", user.ID.String(),
		"username", user.Username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "login", map[string]string{
		"next": safeNext(r.URL.Query().Get("next")),
	})
}

// handleLogin authenticates and starts a session. On success the user is
// returned to the page that sent them to login, when that page is internal.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, fields := parseLoginForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid login details", fields)
		return
	}

	session, token, err := s.auth.Login(r.Context(), form.Email, form.Password, form.Remember)
	if err != nil {
		s.recordLogin("failure")
		s.renderError(w, r, err)
		return
	}
	s.recordLogin("success")

	s.setSessionCookie(w, token, session.Remember, session.ExpiresAt)

	target := safeNext(r.URL.Query().Get("next"))
	if target == "" {
		target = safeNext(r.PostFormValue("next"))
	}
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleLogout ends the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session := currentSession(r); session != nil {
		if err := s.auth.Logout(r.Context(), session.ID); err != nil {
			s.logger.WarnContext(r.Context(), "failed to delete session on logout", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleAccountPage renders the account form prefilled with the current
// user's details.
func (s *Server) handleAccountPage(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, "account", s.userViewOf(currentUser(r)))
}

// handleAccountUpdate changes username, email, and optionally the profile
// picture.
func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	form, fields, err := parseAccountForm(r)
	if err != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "could not read form", nil)
		return
	}
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid account details", fields)
		return
	}

	avatarFilename := ""
	if len(form.Picture) > 0 {
		if s.avatars == nil {
			s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "picture uploads are not enabled", nil)
			return
		}
		avatarFilename, err = s.avatars.Save(r.Context(), form.Picture, form.PictureExt)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	updated, err := s.auth.UpdateAccount(r.Context(), user.ID, form.Username, form.Email, avatarFilename)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, "account", s.userViewOf(updated))
}

// handleResetRequestPage renders the forgot-password form.
func (s *Server) handleResetRequestPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "reset_request", nil)
}

// handleResetRequest issues a reset token and emails the link. The response
// is identical whether or not the address has an account.
func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, fields := parseResetRequestForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid email", fields)
		return
	}

	token, err := s.resets.RequestReset(r.Context(), form.Email)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if token != "" {
		link := strings.TrimSuffix(s.resetURL, "/") + "/" + token
		username := ""
		if user, lookupErr := s.users.GetByEmail(r.Context(), form.Email); lookupErr == nil {
			username = user.Username
		}
		if sendErr := s.mailer.SendPasswordReset(r.Context(), form.Email, username, link); sendErr != nil {
			// Response stays uniform so delivery problems don't reveal
			// which addresses exist.
			s.logger.ErrorContext(r.Context(), "failed to send reset email", "error", sendErr)
		}
	}

	s.renderer.Render(w, r, http.StatusOK, "reset_request_sent", map[string]string{
		"message": "an email has been sent with instructions to reset your password",
	})
}

// handleResetPasswordPage verifies the token before showing the new-password
// form.
func (s *Server) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	token := chi.URLParam(r, "token")
	if _, err := s.resets.VerifyToken(r.Context(), token); err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, "reset_password", nil)
}

// handleResetPassword sets the new password and sends the user to login.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, fields := parseResetPasswordForm(r)
	if fields != nil {
		s.renderer.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid password", fields)
		return
	}

	token := chi.URLParam(r, "token")
	user, err := s.resets.ResetPassword(r.Context(), token, form.Password)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "password reset completed", "user_id", user.ID.String())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) recordLogin(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}

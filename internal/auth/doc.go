// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package auth provides the identity core of the blog: user accounts,
// password hashing, web sessions, and the password reset flow.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their respective
// constructors:
//   - NewUser - creates a User with validated username and email
//   - NewSession - creates a Session with validated user and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration, login, logout, session validation, account update
//   - PasswordResetService - password reset flow over stateless signed tokens
package auth

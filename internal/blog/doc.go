// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package blog provides the post domain: authoring, listing, and the
// ownership rules that govern who may change a post.
package blog

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package auth

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is the sentinel matched by errors.Is for any unique-key
// conflict. Use DuplicateError to learn which field conflicted.
var ErrDuplicate = errors.New("duplicate key")

// DuplicateError reports a unique-constraint violation on a named field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key: %s already taken", e.Field)
}

// Is makes errors.Is(err, ErrDuplicate) match.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

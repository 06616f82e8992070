// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package errutil

import "github.com/samber/oops"

// Code returns the string code attached to an oops error. It returns the
// empty string when err is not an oops error or carries no string code.
// Wrapped errors keep the innermost code that was set.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

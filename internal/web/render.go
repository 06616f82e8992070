// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Renderer turns handler results into HTTP responses. The default renderer
// answers JSON; an HTML template renderer can be plugged in without touching
// the handlers.
type Renderer interface {
	// Render writes a success response for the named view.
	Render(w http.ResponseWriter, r *http.Request, status int, view string, data any)

	// Error writes an error response. fields carries per-field validation
	// messages and may be nil.
	Error(w http.ResponseWriter, r *http.Request, status int, code, message string, fields map[string]string)
}

// JSONRenderer renders every view as a JSON envelope.
type JSONRenderer struct{}

type jsonEnvelope struct {
	View string `json:"view"`
	Data any    `json:"data,omitempty"`
}

type jsonError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Render writes the view and its data as JSON.
func (JSONRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	writeJSON(w, r, status, jsonEnvelope{View: view, Data: data})
}

// Error writes the error as JSON.
func (JSONRenderer) Error(w http.ResponseWriter, r *http.Request, status int, code, message string, fields map[string]string) {
	writeJSON(w, r, status, map[string]jsonError{
		"error": {Code: code, Message: message, Fields: fields},
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// Compile-time interface check.
var _ Renderer = JSONRenderer{}

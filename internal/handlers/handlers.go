// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Every response is wrapped
// in a tagged envelope: {"code":200,"data":…} on success,
// {"code":N,"message":…} on failure. Repository and store errors are
// translated to HTTP status codes here and nowhere else.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkpost/internal/blob"
	"inkpost/internal/repository"
	"inkpost/internal/store"
)

// Posts bundles the post endpoints around the post repository.
type Posts struct {
	repo *repository.PostRepository
}

// NewPosts creates the post handler group.
func NewPosts(repo *repository.PostRepository) *Posts {
	return &Posts{repo: repo}
}

// Comments bundles the comment endpoints. Comment CRUD is plain
// single-table work, so the handlers talk to the store directly.
type Comments struct {
	store *store.CommentStore
}

// NewComments creates the comment handler group.
func NewComments(s *store.CommentStore) *Comments {
	return &Comments{store: s}
}

type successEnvelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(successEnvelope{Code: status, Data: data}); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{Code: status, Message: message}); err != nil {
		slog.Error("encode error response", "error", err)
	}
}

// writeStoreError translates a repository/store/blob error into the
// envelope. Infrastructure details never leak to clients; they go to
// the log instead.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, blob.ErrExists):
		writeError(w, http.StatusConflict, "content already exists for this title")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpost/internal/models"
)

// Create handles POST /comment.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var create models.CommentCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateComment(create.PostID, create.Author, create.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := h.store.Create(r.Context(), create)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, comment)
}

// Get handles GET /comment/{id}.
func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	comment, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, comment)
}

// Update handles PUT /comment/{id}. Only the content is editable.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update models.CommentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateCommentBody(update.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := h.store.Update(r.Context(), id, update.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, comment)
}

// Delete handles DELETE /comment/{id} and returns the deleted comment.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	comment, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, comment)
}

// ListByPost handles GET /comment/post/{postID}: a flat list in
// creation order; clients assemble the reply tree from parent_id.
func (h *Comments) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "postID must be an integer")
		return
	}

	comments, err := h.store.FindByPostID(r.Context(), postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, comments)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpost/internal/models"
)

// multipart memory ceiling: content up to the validation limit stays
// bounded, larger parts spill to temp files before being rejected.
const maxMultipartMemory = 1 << 20

// Upload handles POST /post/upload: a multipart form with title, a
// comma-joined tags field, and the content bytes.
func (h *Posts) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	for name := range r.MultipartForm.Value {
		if name != "title" && name != "tags" && name != "content" {
			writeError(w, http.StatusBadRequest, "unknown field: "+name)
			return
		}
	}
	for name := range r.MultipartForm.File {
		if name != "content" {
			writeError(w, http.StatusBadRequest, "unknown field: "+name)
			return
		}
	}

	create := models.PostCreate{
		Title: r.FormValue("title"),
		Tags:  splitList(r.FormValue("tags")),
	}

	// Content may arrive as a file part or a plain value.
	if file, _, err := r.FormFile("content"); err == nil {
		data, err := io.ReadAll(io.LimitReader(file, maxContentBytes+1))
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read content")
			return
		}
		create.Content = data
	} else {
		create.Content = []byte(r.FormValue("content"))
	}

	if msg := validatePost(create.Title, create.Tags, len(create.Content)); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meta, err := h.repo.AddOne(r.Context(), create)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, meta)
}

// Meta handles GET /post/{id}/meta. The fetch counts as a view.
func (h *Posts) Meta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	meta, err := h.repo.ReadOne(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, meta)
}

// Content handles GET /post/{id}: metadata plus the post body.
func (h *Posts) Content(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	meta, data, err := h.repo.ReadContent(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, models.Post{PostMeta: *meta, Content: string(data)})
}

// List handles GET /post/list?cursor=&page_size=.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	var p models.Pagination

	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "cursor must be an integer")
			return
		}
		p.Cursor = &cursor
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			writeError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		p.PageSize = &size
	}

	page, err := h.repo.List(r.Context(), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

// Search handles GET /post/search?keywords=a,b. All keywords must
// match; no keywords means no results.
func (h *Posts) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.repo.Search(r.Context(), splitList(r.URL.Query().Get("keywords")))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, matches)
}

// Tags handles GET /post/tags: every distinct tag, sorted.
func (h *Posts) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repo.Tags(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, tags)
}

// FilterByTags handles GET /post/tags/filter?tags=a,b. Containment
// match; no tags means no results.
func (h *Posts) FilterByTags(w http.ResponseWriter, r *http.Request) {
	matches, err := h.repo.FilterByTags(r.Context(), splitList(r.URL.Query().Get("tags")))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, matches)
}

// Update handles PUT /post/{id}: title and tags only. The body content
// is immutable after upload.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var update models.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validatePost(update.Title, update.Tags, 0); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meta, err := h.repo.UpdateOne(r.Context(), id, update)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, meta)
}

// Delete handles DELETE /post/{id} and returns the deleted metadata.
// The stored content is left behind (documented gap).
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	meta, err := h.repo.DeleteOne(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, meta)
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type batchDeleteResponse struct {
	Deleted []models.PostMeta `json:"deleted"`
	// Error carries the last failure when the batch only partially
	// succeeded. Compare len(deleted) against the request to tell how
	// much went through.
	Error string `json:"error,omitempty"`
}

// BatchDelete handles POST /post/batch-delete. Deletion continues past
// failures; the response always carries the deleted subset.
func (h *Posts) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	deleted, err := h.repo.DeleteMany(r.Context(), req.IDs)
	resp := batchDeleteResponse{Deleted: deleted}
	if err != nil {
		resp.Error = "not all posts could be deleted"
	}
	writeData(w, http.StatusOK, resp)
}

// pathID parses the {id} path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Post handler tests run against an in-memory repository: routing,
// decoding, validation, and envelope shapes are what is under test.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"inkpost/internal/blob"
	"inkpost/internal/models"
	"inkpost/internal/repository"
	"inkpost/internal/store"
)

// memMeta is a minimal in-memory repository.MetaStore.
type memMeta struct {
	nextID int64
	rows   map[int64]models.PostMeta
}

func (m *memMeta) Create(_ context.Context, title string, tags, _ []string) (*models.PostMeta, error) {
	m.nextID++
	now := time.Now()
	meta := models.PostMeta{ID: m.nextID, Title: title, Tags: slices.Clone(tags), FirstPublish: now, LastModify: now}
	m.rows[meta.ID] = meta
	return &meta, nil
}

func (m *memMeta) FindByID(_ context.Context, id int64) (*models.PostMeta, error) {
	meta, ok := m.rows[id]
	if !ok {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "find"}
	}
	return &meta, nil
}

func (m *memMeta) Touch(_ context.Context, id int64) (*models.PostMeta, error) {
	meta, ok := m.rows[id]
	if !ok {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "touch"}
	}
	meta.ViewCount++
	m.rows[id] = meta
	return &meta, nil
}

func (m *memMeta) Update(_ context.Context, id int64, title string, tags, _ []string) (*models.PostMeta, error) {
	meta, ok := m.rows[id]
	if !ok {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "update"}
	}
	meta.Title = title
	meta.Tags = slices.Clone(tags)
	meta.ViewCount++
	meta.LastModify = time.Now()
	m.rows[id] = meta
	return &meta, nil
}

func (m *memMeta) Delete(_ context.Context, id int64) (*models.PostMeta, error) {
	meta, ok := m.rows[id]
	if !ok {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "delete"}
	}
	delete(m.rows, id)
	return &meta, nil
}

func (m *memMeta) ListPage(_ context.Context, cursor int64, pageSize int) ([]models.PostMeta, error) {
	page := []models.PostMeta{}
	for id, meta := range m.rows {
		if id > cursor {
			page = append(page, meta)
		}
	}
	sort.Slice(page, func(i, j int) bool { return page[i].ID < page[j].ID })
	if len(page) > pageSize {
		page = page[:pageSize]
	}
	return page, nil
}

func (m *memMeta) FindByKeywords(_ context.Context, _ []string) ([]models.PostMeta, error) {
	return []models.PostMeta{}, nil
}

func (m *memMeta) FindByTags(_ context.Context, tags []string) ([]models.PostMeta, error) {
	matches := []models.PostMeta{}
	for _, meta := range m.rows {
		all := true
		for _, tag := range tags {
			if !slices.Contains(meta.Tags, tag) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, meta)
		}
	}
	return matches, nil
}

func (m *memMeta) ListAllTags(_ context.Context) ([]string, error) {
	return []string{}, nil
}

// memBlob is a minimal in-memory write-once blob.Store.
type memBlob struct {
	objects map[string][]byte
}

func (m *memBlob) Path(title string) string { return blob.Key(title) }

func (m *memBlob) Write(_ context.Context, title string, data []byte) error {
	key := m.Path(title)
	if _, ok := m.objects[key]; ok {
		return fmt.Errorf("write %s: %w", key, blob.ErrExists)
	}
	m.objects[key] = slices.Clone(data)
	return nil
}

func (m *memBlob) Read(_ context.Context, title string) ([]byte, error) {
	data, ok := m.objects[m.Path(title)]
	if !ok {
		return nil, fmt.Errorf("read: %w", blob.ErrNotFound)
	}
	return data, nil
}

type spaceSeg struct{}

func (spaceSeg) Cut(_ context.Context, title string) ([]string, error) {
	return strings.Fields(title), nil
}

// testRouter wires the post handlers onto their real routes.
func testRouter(t *testing.T) (chi.Router, *memMeta) {
	t.Helper()

	meta := &memMeta{rows: map[int64]models.PostMeta{}}
	blobs := &memBlob{objects: map[string][]byte{}}
	posts := NewPosts(repository.NewPost(meta, blobs, spaceSeg{}, 0))

	r := chi.NewRouter()
	r.Route("/post", func(r chi.Router) {
		r.Post("/upload", posts.Upload)
		r.Get("/list", posts.List)
		r.Get("/search", posts.Search)
		r.Get("/tags", posts.Tags)
		r.Get("/tags/filter", posts.FilterByTags)
		r.Post("/batch-delete", posts.BatchDelete)
		r.Get("/{id}/meta", posts.Meta)
		r.Get("/{id}", posts.Content)
		r.Put("/{id}", posts.Update)
		r.Delete("/{id}", posts.Delete)
	})
	return r, meta
}

// multipartBody builds an upload form.
func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, r chi.Router, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields)
	req := httptest.NewRequest("POST", "/post/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Code int `json:"code"`
		Data T   `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	if envelope.Code != w.Code {
		t.Errorf("envelope code %d != status %d", envelope.Code, w.Code)
	}
	return envelope.Data
}

func TestUploadThenReadScenario(t *testing.T) {
	r, _ := testRouter(t)

	w := doUpload(t, r, map[string]string{
		"title": "hello world", "tags": "a,b", "content": "hi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upload status: got %d, body %s", w.Code, w.Body.String())
	}
	created := decodeData[models.PostMeta](t, w)
	if created.ID <= 0 {
		t.Fatalf("id: got %d", created.ID)
	}
	if !slices.Equal(created.Tags, []string{"a", "b"}) {
		t.Errorf("tags: got %v, want [a b]", created.Tags)
	}
	if created.ViewCount != 0 {
		t.Errorf("view_count: got %d, want 0", created.ViewCount)
	}

	// Reading the meta counts the view.
	req := httptest.NewRequest("GET", fmt.Sprintf("/post/%d/meta", created.ID), nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("meta status: got %d", w2.Code)
	}
	read := decodeData[models.PostMeta](t, w2)
	if read.ViewCount != 1 {
		t.Errorf("view_count after read: got %d, want 1", read.ViewCount)
	}

	// Reading the full post returns the body.
	req = httptest.NewRequest("GET", fmt.Sprintf("/post/%d", created.ID), nil)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req)
	post := decodeData[models.Post](t, w3)
	if post.Content != "hi" {
		t.Errorf("content: got %q, want %q", post.Content, "hi")
	}
}

func TestUploadValidation(t *testing.T) {
	r, _ := testRouter(t)

	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"empty title", map[string]string{"title": "", "content": "x"}},
		{"whitespace title", map[string]string{"title": "   ", "content": "x"}},
		{"oversized title", map[string]string{"title": strings.Repeat("t", 256), "content": "x"}},
		{"too many tags", map[string]string{
			"title": "ok", "tags": "a,b,c,d,e,f,g,h,i,j,k", "content": "x",
		}},
		{"unknown field", map[string]string{"title": "ok", "content": "x", "bogus": "y"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doUpload(t, r, c.fields)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestUploadDuplicateTitleConflicts(t *testing.T) {
	r, _ := testRouter(t)

	if w := doUpload(t, r, map[string]string{"title": "same", "content": "first"}); w.Code != http.StatusOK {
		t.Fatalf("first upload: %d", w.Code)
	}
	w := doUpload(t, r, map[string]string{"title": "same", "content": "second"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate upload: got %d, want 409", w.Code)
	}
}

func TestMetaNotFound(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest("GET", "/post/999/meta", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
	var envelope errorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Code != http.StatusNotFound || envelope.Message == "" {
		t.Errorf("envelope: %+v", envelope)
	}
}

func TestListEmptyAndBadParams(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest("GET", "/post/list", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	page := decodeData[[]models.PostMeta](t, w)
	if len(page) != 0 {
		t.Errorf("empty store: got %d rows", len(page))
	}

	for _, url := range []string{
		"/post/list?cursor=abc",
		"/post/list?page_size=0",
		"/post/list?page_size=-2",
	} {
		req := httptest.NewRequest("GET", url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", url, w.Code)
		}
	}
}

func TestListPaginates(t *testing.T) {
	r, _ := testRouter(t)

	for i := 0; i < 10; i++ {
		doUpload(t, r, map[string]string{
			"title": fmt.Sprintf("post %d", i), "content": "x",
		})
	}

	req := httptest.NewRequest("GET", "/post/list?page_size=4", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	page := decodeData[[]models.PostMeta](t, w)
	if len(page) != 4 {
		t.Fatalf("page: got %d rows, want 4", len(page))
	}

	cursor := page[len(page)-1].ID
	req = httptest.NewRequest("GET", fmt.Sprintf("/post/list?cursor=%d&page_size=100", cursor), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	rest := decodeData[[]models.PostMeta](t, w)
	if len(rest) != 6 {
		t.Errorf("rest: got %d rows, want 6", len(rest))
	}
	for _, meta := range rest {
		if meta.ID <= cursor {
			t.Errorf("id %d not above cursor %d", meta.ID, cursor)
		}
	}
}

func TestSearchEmptyKeywords(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest("GET", "/post/search", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	matches := decodeData[[]models.PostMeta](t, w)
	if len(matches) != 0 {
		t.Errorf("no keywords: got %d matches, want 0", len(matches))
	}
}

func TestFilterByTagsScenario(t *testing.T) {
	r, _ := testRouter(t)

	w := doUpload(t, r, map[string]string{"title": "tagged post", "tags": "a,b", "content": "x"})
	created := decodeData[models.PostMeta](t, w)

	req := httptest.NewRequest("GET", "/post/tags/filter?tags=a", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	matches := decodeData[[]models.PostMeta](t, rec)
	if len(matches) != 1 || matches[0].ID != created.ID {
		t.Errorf("filter a: got %v", matches)
	}

	req = httptest.NewRequest("GET", "/post/tags/filter?tags=z", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	matches = decodeData[[]models.PostMeta](t, rec)
	if len(matches) != 0 {
		t.Errorf("filter z: got %v, want none", matches)
	}

	// No tags parameter → empty result, not everything.
	req = httptest.NewRequest("GET", "/post/tags/filter", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	matches = decodeData[[]models.PostMeta](t, rec)
	if len(matches) != 0 {
		t.Errorf("no filter: got %v, want none", matches)
	}
}

func TestUpdatePost(t *testing.T) {
	r, _ := testRouter(t)

	w := doUpload(t, r, map[string]string{"title": "before", "content": "x"})
	created := decodeData[models.PostMeta](t, w)

	body, _ := json.Marshal(models.PostUpdate{Title: "after", Tags: []string{"t"}})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/post/%d", created.ID), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeData[models.PostMeta](t, rec)
	if updated.Title != "after" || !slices.Equal(updated.Tags, []string{"t"}) {
		t.Errorf("updated: %+v", updated)
	}

	// Empty title rejected.
	body, _ = json.Marshal(models.PostUpdate{Title: ""})
	req = httptest.NewRequest("PUT", fmt.Sprintf("/post/%d", created.ID), bytes.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty title update: got %d, want 400", rec.Code)
	}
}

func TestDeleteAndBatchDelete(t *testing.T) {
	r, meta := testRouter(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		w := doUpload(t, r, map[string]string{
			"title": fmt.Sprintf("victim %d", i), "content": "x",
		})
		ids = append(ids, decodeData[models.PostMeta](t, w).ID)
	}

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/post/%d", ids[0]), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}
	deleted := decodeData[models.PostMeta](t, rec)
	if deleted.ID != ids[0] {
		t.Errorf("deleted id: got %d, want %d", deleted.ID, ids[0])
	}

	// Batch: one already gone, two present.
	body, _ := json.Marshal(batchDeleteRequest{IDs: []int64{ids[0], ids[1], ids[2]}})
	req = httptest.NewRequest("POST", "/post/batch-delete", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("batch delete: got %d", rec.Code)
	}
	resp := decodeData[batchDeleteResponse](t, rec)
	if len(resp.Deleted) != 2 {
		t.Errorf("batch deleted: got %d, want 2", len(resp.Deleted))
	}
	if resp.Error == "" {
		t.Error("expected partial-failure error in response")
	}
	if len(meta.rows) != 0 {
		t.Errorf("rows left: %d", len(meta.rows))
	}
}

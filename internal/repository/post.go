// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repository composes the tokenizer, the metadata store, and
// the blob store behind the single contract handlers depend on.
package repository

import (
	"context"
	"log/slog"

	"inkpost/internal/blob"
	"inkpost/internal/models"
)

// MetaStore is the metadata-store capability the repository requires.
// Any backend exposing these operations can serve; the concrete store
// is chosen once at startup and held for the process lifetime.
type MetaStore interface {
	Create(ctx context.Context, title string, tags, tokens []string) (*models.PostMeta, error)
	FindByID(ctx context.Context, id int64) (*models.PostMeta, error)
	Touch(ctx context.Context, id int64) (*models.PostMeta, error)
	Update(ctx context.Context, id int64, title string, tags, tokens []string) (*models.PostMeta, error)
	Delete(ctx context.Context, id int64) (*models.PostMeta, error)
	ListPage(ctx context.Context, cursor int64, pageSize int) ([]models.PostMeta, error)
	FindByKeywords(ctx context.Context, keywords []string) ([]models.PostMeta, error)
	FindByTags(ctx context.Context, tags []string) ([]models.PostMeta, error)
	ListAllTags(ctx context.Context) ([]string, error)
}

// Segmenter produces search keywords from a title.
type Segmenter interface {
	Cut(ctx context.Context, title string) ([]string, error)
}

// PostRepository orchestrates post persistence across the metadata
// store and the blob store. All methods are safe for concurrent use;
// concurrency control is whatever the underlying stores provide (the
// blob store's write-once guarantee, the database's row-level
// last-writer-wins).
type PostRepository struct {
	meta     MetaStore
	blobs    blob.Store
	seg      Segmenter
	pageSize int
}

// NewPost builds a PostRepository. defaultPageSize is used for listing
// requests that do not specify one; non-positive values fall back to
// models.DefaultPageSize.
func NewPost(meta MetaStore, blobs blob.Store, seg Segmenter, defaultPageSize int) *PostRepository {
	if defaultPageSize <= 0 {
		defaultPageSize = models.DefaultPageSize
	}
	return &PostRepository{meta: meta, blobs: blobs, seg: seg, pageSize: defaultPageSize}
}

// AddOne tokenizes the title, creates the metadata row, then writes the
// body to the blob store keyed by the stored title.
//
// The two writes are not atomic. When the blob write fails after the
// row has committed, the row is left referencing a missing object and
// the blob error is surfaced; no compensating delete runs. This is a
// known limitation, kept deliberately.
func (r *PostRepository) AddOne(ctx context.Context, create models.PostCreate) (*models.PostMeta, error) {
	tokens, err := r.seg.Cut(ctx, create.Title)
	if err != nil {
		return nil, err
	}

	meta, err := r.meta.Create(ctx, create.Title, create.Tags, tokens)
	if err != nil {
		return nil, err
	}

	if err := r.blobs.Write(ctx, meta.Title, create.Content); err != nil {
		slog.Warn("post metadata committed but content write failed; row is orphaned",
			"post_id", meta.ID,
			"title", meta.Title,
			"error", err,
		)
		return nil, err
	}

	return meta, nil
}

// ReadOne fetches a post's metadata by id. Every individual fetch
// counts as a view: the returned row carries the incremented counter.
func (r *PostRepository) ReadOne(ctx context.Context, id int64) (*models.PostMeta, error) {
	return r.meta.Touch(ctx, id)
}

// ReadContent fetches a post's metadata (counting the view) together
// with its body from the blob store.
func (r *PostRepository) ReadContent(ctx context.Context, id int64) (*models.PostMeta, []byte, error) {
	meta, err := r.meta.Touch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.blobs.Read(ctx, meta.Title)
	if err != nil {
		return nil, nil, err
	}
	return meta, data, nil
}

// UpdateOne re-tokenizes the new title and rewrites the metadata row.
// The blob store is not touched: content for the old title stays under
// its old key, a documented gap of title-keyed storage.
func (r *PostRepository) UpdateOne(ctx context.Context, id int64, update models.PostUpdate) (*models.PostMeta, error) {
	tokens, err := r.seg.Cut(ctx, update.Title)
	if err != nil {
		return nil, err
	}
	return r.meta.Update(ctx, id, update.Title, update.Tags, tokens)
}

// DeleteOne removes the metadata row and returns it. The blob store is
// not touched; content cleanup is out of this repository's ownership.
func (r *PostRepository) DeleteOne(ctx context.Context, id int64) (*models.PostMeta, error) {
	return r.meta.Delete(ctx, id)
}

// DeleteMany deletes posts one by one. It always returns the
// successfully deleted subset; when deletions fail, only the last
// error is reported. Callers detect partial failure by comparing the
// returned length against the input length.
func (r *PostRepository) DeleteMany(ctx context.Context, ids []int64) ([]models.PostMeta, error) {
	deleted := []models.PostMeta{}
	var lastErr error
	for _, id := range ids {
		meta, err := r.meta.Delete(ctx, id)
		if err != nil {
			lastErr = err
			continue
		}
		deleted = append(deleted, *meta)
	}
	return deleted, lastErr
}

// List returns a page of post metadata: rows with id above the cursor,
// ascending, capped at the requested (or configured default) page
// size. Listing never moves view counters.
func (r *PostRepository) List(ctx context.Context, p models.Pagination) ([]models.PostMeta, error) {
	size := r.pageSize
	if p.PageSize != nil && *p.PageSize > 0 {
		size = *p.PageSize
	}
	return r.meta.ListPage(ctx, p.CursorOrZero(), size)
}

// Search returns posts whose search index matches every keyword. An
// empty keyword list yields an empty result without a store query.
func (r *PostRepository) Search(ctx context.Context, keywords []string) ([]models.PostMeta, error) {
	if len(keywords) == 0 {
		return []models.PostMeta{}, nil
	}
	return r.meta.FindByKeywords(ctx, keywords)
}

// FilterByTags returns posts whose tag set contains every given tag.
// An empty tag list yields an empty result without a store query.
func (r *PostRepository) FilterByTags(ctx context.Context, tags []string) ([]models.PostMeta, error) {
	if len(tags) == 0 {
		return []models.PostMeta{}, nil
	}
	return r.meta.FindByTags(ctx, tags)
}

// Tags returns every distinct tag in lexicographic order.
func (r *PostRepository) Tags(ctx context.Context) ([]string, error) {
	return r.meta.ListAllTags(ctx)
}

// BuildFilePath maps a title to its blob location. Pure passthrough;
// identical titles always map to identical paths.
func (r *PostRepository) BuildFilePath(title string) string {
	return r.blobs.Path(title)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostMeta is the relational record describing a post: identity, tags,
// view counter and timestamps. The body content lives in the blob store
// and is never part of this record. The search-index column (kw) is
// write-only from the application's point of view and is therefore not
// represented here.
type PostMeta struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags"`
	ViewCount    int64     `json:"view_count"`
	FirstPublish time.Time `json:"first_publish"`
	LastModify   time.Time `json:"last_modify"`
}

// Post is the full read projection: metadata plus the body content
// fetched from the blob store.
type Post struct {
	PostMeta
	Content string `json:"content"`
}

// PostCreate carries the fields accepted by the upload endpoint.
type PostCreate struct {
	Title   string
	Tags    []string
	Content []byte
}

// PostUpdate carries the fields accepted by the update endpoint.
// Content is not updatable; a new title re-keys nothing in the blob
// store, so the old object stays where it is.
type PostUpdate struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// DefaultPageSize is used when a listing request does not specify one.
const DefaultPageSize = 8

// Pagination is the cursor-based paging request for post listings. The
// cursor is the last-seen post id from the previous page; nothing else
// is encoded in it, which ties listing order to ascending ids.
type Pagination struct {
	Cursor   *int64 `json:"cursor"`
	PageSize *int   `json:"page_size"`
}

// CursorOrZero returns the cursor lower bound, defaulting to 0 so the
// first page starts at the lowest id.
func (p Pagination) CursorOrZero() int64 {
	if p.Cursor == nil {
		return 0
	}
	return *p.Cursor
}

// PageSizeOrDefault returns the requested page size, falling back to
// DefaultPageSize when unset or non-positive.
func (p Pagination) PageSizeOrDefault() int {
	if p.PageSize == nil || *p.PageSize <= 0 {
		return DefaultPageSize
	}
	return *p.PageSize
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store owns the relational representation of posts and
// comments on PostgreSQL. The post search index is a tsvector column
// built from the tokenized title at create/update time and queried only
// through tsquery matching; it is never read back as a value.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"inkpost/internal/models"
)

const postColumns = "id, title, tags, view_count, first_publish, last_modify"

// PostStore handles all post metadata database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post row with view_count 0, compiling the token
// sequence into the tsvector search index. Tags are stored as a jsonb
// array in input order, duplicates included.
func (s *PostStore) Create(ctx context.Context, title string, tags, tokens []string) (*models.PostMeta, error) {
	tagsJSON, err := json.Marshal(emptyIfNil(tags))
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: "create", Err: err}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, tags, kw)
		VALUES ($1, $2::jsonb, to_tsvector('simple', $3))
		RETURNING `+postColumns,
		title, tagsJSON, strings.Join(tokens, "&"),
	)

	meta, err := scanMeta(row)
	if err != nil {
		return nil, classify("create", err)
	}
	return meta, nil
}

// FindByID retrieves a post by id without side effects.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.PostMeta, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = $1", id)

	meta, err := scanMeta(row)
	if err != nil {
		return nil, classify("find by id", err)
	}
	return meta, nil
}

// Touch increments a post's view counter and returns the updated row.
// This is the single write-on-read path: every individual metadata
// fetch goes through it, listings never do.
func (s *PostStore) Touch(ctx context.Context, id int64) (*models.PostMeta, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET view_count = view_count + 1
		WHERE id = $1
		RETURNING `+postColumns,
		id,
	)

	meta, err := scanMeta(row)
	if err != nil {
		return nil, classify("touch", err)
	}
	return meta, nil
}

// Update rewrites title and tags, rebuilds the search index from the
// new token sequence, refreshes last_modify, and bumps view_count.
// The counter bump on update mirrors the counter bump on read: any
// individual row fetch, including the one an update performs, counts
// as a view.
func (s *PostStore) Update(ctx context.Context, id int64, title string, tags, tokens []string) (*models.PostMeta, error) {
	tagsJSON, err := json.Marshal(emptyIfNil(tags))
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: "update", Err: err}
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE posts
		SET title = $1, tags = $2::jsonb, kw = to_tsvector('simple', $3),
		    last_modify = NOW(), view_count = view_count + 1
		WHERE id = $4
		RETURNING `+postColumns,
		title, tagsJSON, strings.Join(tokens, "&"), id,
	)

	meta, err := scanMeta(row)
	if err != nil {
		return nil, classify("update", err)
	}
	return meta, nil
}

// Delete removes a post row and returns it. Ids are never reused: the
// sequence behind the primary key only moves forward.
func (s *PostStore) Delete(ctx context.Context, id int64) (*models.PostMeta, error) {
	row := s.db.QueryRowContext(ctx,
		"DELETE FROM posts WHERE id = $1 RETURNING "+postColumns, id)

	meta, err := scanMeta(row)
	if err != nil {
		return nil, classify("delete", err)
	}
	return meta, nil
}

// ListPage returns up to pageSize rows with id > cursor, in ascending
// id order. Listing is read-only: view counters move only on
// individual fetches (see Touch).
func (s *PostStore) ListPage(ctx context.Context, cursor int64, pageSize int) ([]models.PostMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2`,
		cursor, pageSize,
	)
	if err != nil {
		return nil, classify("list page", err)
	}
	defer rows.Close()

	return collectMetas("list page", rows)
}

// FindByKeywords returns posts whose search index matches every given
// keyword. An empty keyword list matches nothing, not everything —
// callers wanting an unfiltered listing must use ListPage.
func (s *PostStore) FindByKeywords(ctx context.Context, keywords []string) ([]models.PostMeta, error) {
	if len(keywords) == 0 {
		return []models.PostMeta{}, nil
	}

	// Conjoin the keywords into a tsquery: 'kw1' & 'kw2' & ...
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = "'" + strings.ReplaceAll(kw, "'", "''") + "'"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE kw @@ to_tsquery('simple', $1)`,
		strings.Join(quoted, " & "),
	)
	if err != nil {
		return nil, classify("find by keywords", err)
	}
	defer rows.Close()

	return collectMetas("find by keywords", rows)
}

// FindByTags returns posts whose tag set contains every given tag.
// An empty tag list matches nothing, mirroring FindByKeywords.
func (s *PostStore) FindByTags(ctx context.Context, tags []string) ([]models.PostMeta, error) {
	if len(tags) == 0 {
		return []models.PostMeta{}, nil
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: "find by tags", Err: err}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE tags @> $1::jsonb", tagsJSON)
	if err != nil {
		return nil, classify("find by tags", err)
	}
	defer rows.Close()

	return collectMetas("find by tags", rows)
}

// ListAllTags returns the distinct tags across all posts in
// lexicographic order.
func (s *PostStore) ListAllTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT jsonb_array_elements_text(tags) AS tag
		FROM posts ORDER BY tag`)
	if err != nil {
		return nil, classify("list all tags", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, classify("list all tags", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list all tags", err)
	}
	return tags, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeta(row rowScanner) (*models.PostMeta, error) {
	var (
		meta     models.PostMeta
		tagsJSON []byte
	)
	if err := row.Scan(
		&meta.ID, &meta.Title, &tagsJSON,
		&meta.ViewCount, &meta.FirstPublish, &meta.LastModify,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &meta.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &meta, nil
}

func collectMetas(op string, rows *sql.Rows) ([]models.PostMeta, error) {
	metas := []models.PostMeta{}
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		metas = append(metas, *meta)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return metas, nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

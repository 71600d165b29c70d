// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"inkpost/internal/models"
)

const commentColumns = "id, post_id, author, content, created_at, parent_id"

// CommentStore handles all comment database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a new comment. A non-nil ParentID must reference an
// existing comment on the same post; the foreign key enforces existence.
func (s *CommentStore) Create(ctx context.Context, c models.CommentCreate) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+commentColumns,
		c.PostID, c.Author, c.Content, c.ParentID,
	)

	comment, err := scanComment(row)
	if err != nil {
		return nil, classify("create comment", err)
	}
	return comment, nil
}

// FindByID retrieves a single comment.
func (s *CommentStore) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = $1", id)

	comment, err := scanComment(row)
	if err != nil {
		return nil, classify("find comment", err)
	}
	return comment, nil
}

// FindByPostID returns all comments for a post as a flat list in
// creation order. Reply-tree assembly is the caller's concern.
func (s *CommentStore) FindByPostID(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id = $1 ORDER BY id ASC", postID)
	if err != nil {
		return nil, classify("list comments", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, classify("list comments", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list comments", err)
	}
	return comments, nil
}

// Update replaces a comment's content.
func (s *CommentStore) Update(ctx context.Context, id int64, content string) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE comments SET content = $1 WHERE id = $2 RETURNING "+commentColumns,
		content, id,
	)

	comment, err := scanComment(row)
	if err != nil {
		return nil, classify("update comment", err)
	}
	return comment, nil
}

// Delete removes a comment and returns it. Replies cascade away with it.
func (s *CommentStore) Delete(ctx context.Context, id int64) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"DELETE FROM comments WHERE id = $1 RETURNING "+commentColumns, id)

	comment, err := scanComment(row)
	if err != nil {
		return nil, classify("delete comment", err)
	}
	return comment, nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(
		&c.ID, &c.PostID, &c.Author, &c.Content, &c.CreatedAt, &c.ParentID,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

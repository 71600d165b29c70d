// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Comment is a single comment on a post. ParentID forms an unbounded
// reply tree; a nil ParentID marks a top-level comment.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ParentID  *int64    `json:"parent_id,omitempty"`
}

// CommentCreate carries the fields accepted when creating a comment.
type CommentCreate struct {
	PostID   int64  `json:"post_id"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentUpdate carries the fields accepted when editing a comment.
// Only the content is editable.
type CommentUpdate struct {
	Content string `json:"content"`
}

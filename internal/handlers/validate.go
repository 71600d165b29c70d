package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for post and comment fields. Requests exceeding
// them are rejected before anything reaches the stores.
const (
	maxTitleLen       = 255
	maxTags           = 10
	maxContentBytes   = 10 << 20 // 10 MiB
	maxAuthorLen      = 100
	maxCommentBodyLen = 10_000
)

// validatePost checks upload/update inputs and returns the first error found.
func validatePost(title string, tags []string, contentSize int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 255 characters)."
	}
	if len(tags) > maxTags {
		return "Too many tags (max 10)."
	}
	if contentSize > maxContentBytes {
		return "Content is too large (max 10 MiB)."
	}
	return ""
}

// validateComment checks comment creation inputs.
func validateComment(postID int64, author, content string) string {
	if postID <= 0 {
		return "A valid post_id is required."
	}
	if strings.TrimSpace(author) == "" {
		return "Author is required."
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return "Author is too long (max 100 characters)."
	}
	return validateCommentBody(content)
}

// validateCommentBody checks comment content on create and update.
func validateCommentBody(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxCommentBodyLen {
		return "Content is too long (max 10,000 characters)."
	}
	return ""
}

// splitList splits a comma-separated parameter into trimmed, non-empty
// values, collapsing adjacent duplicates.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == p {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

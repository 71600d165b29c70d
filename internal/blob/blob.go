// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blob stores raw post bodies in a write-once blob store keyed
// by post title. Two backends exist: the local filesystem (default) and
// S3-compatible object storage. The backend is chosen once at startup.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"inkpost/internal/slug"
)

var (
	// ErrNotFound reports that no object exists for the given title.
	ErrNotFound = errors.New("blob: not found")
	// ErrExists reports a write to a title that already has content.
	// Objects are write-once; the existing content is never touched.
	ErrExists = errors.New("blob: already exists")
)

// Store is the content-store contract. Writes are write-once per title:
// a second write for the same title must fail with ErrExists rather than
// overwrite. There is no delete — retitling a post at the metadata layer
// orphans the old object, which is a documented gap.
type Store interface {
	// Write stores data under the title's derived key.
	Write(ctx context.Context, title string, data []byte) error
	// Read returns the content stored for title.
	Read(ctx context.Context, title string) ([]byte, error)
	// Path returns the backend-specific location (file path or object
	// key) derived from title. Pure; identical titles map to identical
	// paths forever.
	Path(title string) string
}

// Key derives the storage key for a title: a readable slug plus a short
// content hash of the full title, so distinct titles that slug the same
// way (or slug to nothing, as Chinese titles do) still get distinct
// keys, and path-unsafe characters never reach the backend.
func Key(title string) string {
	sum := sha256.Sum256([]byte(title))
	digest := hex.EncodeToString(sum[:6])

	if s := slug.Generate(title); s != "" {
		return s + "-" + digest + ".md"
	}
	return digest + ".md"
}

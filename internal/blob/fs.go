// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS stores post bodies as files under a single directory.
type FS struct {
	dir string
}

// NewFS creates the storage directory if needed and returns a
// filesystem-backed store rooted there.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob mkdir %s: %w", dir, err)
	}
	return &FS{dir: dir}, nil
}

// Path returns the absolute file path for a title.
func (f *FS) Path(title string) string {
	return filepath.Join(f.dir, Key(title))
}

// Write creates the file for title with O_EXCL so an existing file is
// never truncated or overwritten.
func (f *FS) Write(_ context.Context, title string, data []byte) error {
	path := f.Path(title)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("blob write %s: %w", path, ErrExists)
		}
		return fmt.Errorf("blob write %s: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("blob write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("blob close %s: %w", path, err)
	}
	return nil
}

// Read returns the full content stored for title.
func (f *FS) Read(_ context.Context, title string) ([]byte, error) {
	path := f.Path(title)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("blob read %s: %w", path, err)
	}
	return data, nil
}

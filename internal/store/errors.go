// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a failed store operation. Driver errors are translated
// into this taxonomy exactly once, at the store boundary; callers only
// ever see *Error values.
type Kind int

const (
	// KindNotFound — the requested row does not exist.
	KindNotFound Kind = iota + 1
	// KindPool — the connection pool is exhausted, closed, or timed out.
	KindPool
	// KindDatabase — a constraint violation or other database-level failure.
	KindDatabase
	// KindInternal — anything unclassified.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPool:
		return "pool error"
	case KindDatabase:
		return "database error"
	default:
		return "internal error"
	}
}

// Error wraps a driver-level failure with its taxonomy kind and the
// store operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a store not-found error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// classify maps a driver error to the store taxonomy. A nil err maps
// to nil so call sites can wrap unconditionally.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := KindInternal
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		kind = KindNotFound
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, driver.ErrBadConn):
		kind = KindPool
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindPool
	case errors.As(err, &pgErr):
		kind = KindDatabase
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

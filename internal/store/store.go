// Package store defines the persistence contract shared by the durable
// MongoDB store and the in-process fallback store. Handlers and services
// depend only on the Store interface; backend selection happens per call in
// the Failover wrapper.
package store

import (
	"context"
	"errors"
)

// Domain errors. These are terminal outcomes, never a reason to fall back to
// another backend.
var (
	ErrNotFound    = errors.New("record not found")
	ErrEmailExists = errors.New("email already registered")
	ErrOutOfStock  = errors.New("out of stock")
)

// Pagination bounds. Offsets are computed as (page-1)*limit, so the caps
// keep the product well inside a 32-bit int on every platform.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 1000
	maxPage          = 1 << 20
)

// BookFilter narrows and pages the public catalog listing. Title and author
// are case-insensitive substring matches; Page is 1-based.
type BookFilter struct {
	TitleContains  string
	AuthorContains string
	Page           int
	Limit          int
}

// Bounds returns the page and limit clamped to servable ranges. Paging input
// is never rejected: out-of-range values land on the nearest bound, and a
// page past the end of the data simply reads empty.
func (f BookFilter) Bounds() (page, limit int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts a new account. Fails with ErrEmailExists when the
	// case-normalized email is taken.
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	// UpdateUserPassword sets the password hash and clears any legacy
	// plaintext credential in the same write.
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// BookStore persists the catalog.
type BookStore interface {
	CreateBook(ctx context.Context, book *Book) error
	GetBook(ctx context.Context, id string) (*Book, error)
	// ListBooks returns every book, newest-created first.
	ListBooks(ctx context.Context) ([]*Book, error)
	// SearchBooks applies the filter and offset pagination, newest first.
	SearchBooks(ctx context.Context, filter BookFilter) ([]*Book, error)
	// UpdateBook replaces the stored record matching book.ID.
	UpdateBook(ctx context.Context, book *Book) error
	DeleteBook(ctx context.Context, id string) error
	// DecrementQuantity atomically takes one copy off the shelf and returns
	// the remaining quantity. Fails with ErrOutOfStock at zero, without
	// mutating anything.
	DecrementQuantity(ctx context.Context, id string) (int, error)
}

// Store is the full persistence surface consumed by services.
type Store interface {
	UserStore
	BookStore
	// Ready reports whether this backend can currently serve requests.
	Ready(ctx context.Context) bool
	Close(ctx context.Context) error
}

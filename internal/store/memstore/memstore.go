// Package memstore is the process-lifetime fallback store used when the
// durable store is unreachable. It mirrors the durable store's observable
// behavior: email uniqueness, newest-first ordering, case-insensitive
// substring search, offset pagination, and the purchase decrement that fails
// rather than clamps at zero.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prensprays-byte/library-inventory-system/internal/store"
)

// Store holds everything behind one mutex. Purchase is a read-modify-write,
// so it must run under the write lock end to end.
type Store struct {
	mu    sync.RWMutex
	users map[string]*store.User
	books map[string]*store.Book
}

func New() *Store {
	return &Store{
		users: make(map[string]*store.User),
		books: make(map[string]*store.Book),
	}
}

func (s *Store) Ready(ctx context.Context) bool { return true }

func (s *Store) Close(ctx context.Context) error { return nil }

// SeedDemoBooks loads two demo titles so the catalog is browsable without a
// database. No-op when any book already exists.
func (s *Store) SeedDemoBooks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.books) > 0 {
		return
	}
	now := time.Now().UTC()
	demo := []*store.Book{
		{
			ID:          uuid.NewString(),
			Title:       "The Pragmatic Programmer",
			Description: "Classic software craftsmanship.",
			CoverURL:    "/logo.webp",
			PublishedAt: time.Date(1999, 10, 30, 0, 0, 0, 0, time.UTC),
			Genre:       "Tech",
			Author:      "Andrew Hunt",
			Quantity:    3,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Clean Code",
			Description: "Writing code that works.",
			CoverURL:    "/logo.webp",
			PublishedAt: time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC),
			Genre:       "Tech",
			Author:      "Robert C. Martin",
			Quantity:    2,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for _, b := range demo {
		s.books[b.ID] = b
	}
}

func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return store.ErrEmailExists
		}
	}

	stored := user.Clone()
	stored.Email = email
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.users[stored.ID] = stored

	user.ID = stored.ID
	user.Email = stored.Email
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			return user.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user.Clone(), nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.LegacyPassword = ""
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) CreateBook(ctx context.Context, book *store.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := book.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.books[stored.ID] = stored

	book.ID = stored.ID
	book.CreatedAt = stored.CreatedAt
	book.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) GetBook(ctx context.Context, id string) (*store.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return book.Clone(), nil
}

func (s *Store) ListBooks(ctx context.Context) ([]*store.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedBooksLocked(), nil
}

func (s *Store) SearchBooks(ctx context.Context, filter store.BookFilter) ([]*store.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.sortedBooksLocked()

	if q := strings.ToLower(strings.TrimSpace(filter.TitleContains)); q != "" {
		items = filterBooks(items, func(b *store.Book) bool {
			return strings.Contains(strings.ToLower(b.Title), q)
		})
	}
	if q := strings.ToLower(strings.TrimSpace(filter.AuthorContains)); q != "" {
		items = filterBooks(items, func(b *store.Book) bool {
			return strings.Contains(strings.ToLower(b.Author), q)
		})
	}

	page, limit := filter.Bounds()
	start := (page - 1) * limit
	if start >= len(items) {
		return []*store.Book{}, nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

func (s *Store) UpdateBook(ctx context.Context, book *store.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.books[book.ID]
	if !ok {
		return store.ErrNotFound
	}

	stored := book.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.books[stored.ID] = stored

	book.CreatedAt = stored.CreatedAt
	book.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *Store) DecrementQuantity(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	if book.Quantity <= 0 {
		return 0, store.ErrOutOfStock
	}
	book.Quantity--
	book.UpdatedAt = time.Now().UTC()
	return book.Quantity, nil
}

// sortedBooksLocked snapshots the catalog newest-created first. Ties break on
// ID so ordering is stable across calls.
func (s *Store) sortedBooksLocked() []*store.Book {
	items := make([]*store.Book, 0, len(s.books))
	for _, b := range s.books {
		items = append(items, b.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

func filterBooks(items []*store.Book, keep func(*store.Book) bool) []*store.Book {
	out := items[:0:0]
	for _, b := range items {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

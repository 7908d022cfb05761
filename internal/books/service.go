// Package books implements the catalog operations: admin CRUD, public
// browsing, and the stock-decrementing purchase.
package books

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
)

const (
	defaultQuantity = 1
	defaultLimit    = 20
	maxLimit        = 100
)

// publishedAtLayouts lists the accepted date formats, tried in order.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// Service defines the behavior needed by the book controllers.
type Service interface {
	ListAdmin(ctx context.Context) ([]*store.Book, error)
	ListPublic(ctx context.Context, query ListQuery) ([]*store.Book, error)
	Create(ctx context.Context, req CreateBookRequest, ownerID string) (*store.Book, error)
	GetByID(ctx context.Context, id string) (*store.Book, error)
	Update(ctx context.Context, id string, req UpdateBookRequest) (*store.Book, error)
	Delete(ctx context.Context, id string) error
	Purchase(ctx context.Context, id string) (*PurchaseResponse, error)
}

type service struct {
	store store.Store
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a books service.
type ServiceParams struct {
	Store  store.Store
	Logger *logger.Logger
}

// NewService constructs a books service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{store: params.Store, logg: params.Logger}, nil
}

func (s *service) ListAdmin(ctx context.Context) ([]*store.Book, error) {
	items, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list books")
	}
	return items, nil
}

func (s *service) ListPublic(ctx context.Context, query ListQuery) ([]*store.Book, error) {
	filter := store.BookFilter{
		TitleContains:  strings.TrimSpace(query.Query),
		AuthorContains: strings.TrimSpace(query.Author),
		Page:           query.Page,
		Limit:          query.Limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	items, err := s.store.SearchBooks(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search books")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, req CreateBookRequest, ownerID string) (*store.Book, error) {
	missing := missingBookFields(req.CoverURL, req.Title, req.Genre, req.Description, req.PublishedAt)
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeMissingFields, "missing required fields").WithMissing(missing)
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		return nil, err
	}

	quantity := defaultQuantity
	if value, present, err := parseQuantity(req.Quantity); err != nil {
		return nil, err
	} else if present {
		quantity = value
	}

	book := &store.Book{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		PublishedAt: publishedAt,
		Genre:       req.Genre,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Quantity:    quantity,
		OwnerID:     ownerID,
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create book")
	}
	return book, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*store.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get book")
	}
	return book, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateBookRequest) (*store.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CoverURL != nil {
		book.CoverURL = *req.CoverURL
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}

	publishedAtInput := book.PublishedAt.Format(time.RFC3339)
	if req.PublishedAt != nil {
		publishedAtInput = *req.PublishedAt
	}

	// The merged record must satisfy the same rules as create: a partial
	// edit cannot blank out a required field or smuggle in a bad value.
	missing := missingBookFields(book.CoverURL, book.Title, book.Genre, book.Description, publishedAtInput)
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeMissingFields, "missing required fields").WithMissing(missing)
	}
	if req.PublishedAt != nil {
		publishedAt, err := parsePublishedAt(*req.PublishedAt)
		if err != nil {
			return nil, err
		}
		book.PublishedAt = publishedAt
	}
	if value, present, err := parseQuantity(req.Quantity); err != nil {
		return nil, err
	} else if present {
		book.Quantity = value
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update book")
	}
	return book, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete book")
	}
	return nil
}

func (s *service) Purchase(ctx context.Context, id string) (*PurchaseResponse, error) {
	remaining, err := s.store.DecrementQuantity(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		case errors.Is(err, store.ErrOutOfStock):
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "no copies left in stock")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "purchase book")
	}
	return &PurchaseResponse{OK: true, Quantity: remaining}, nil
}

func missingBookFields(coverURL, title, genre, description, publishedAt string) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"coverUrl", coverURL},
		{"title", title},
		{"genre", genre},
		{"description", description},
		{"publishedAt", publishedAt},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func parsePublishedAt(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range publishedAtLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeInvalidPublishedAt, "publishedAt is not a valid date")
}

// parseQuantity reads an optional quantity that may arrive as a JSON number
// or a numeric string. Absent and null mean "not provided". Anything that is
// not a finite integer >= 0 is rejected.
func parseQuantity(raw json.RawMessage) (int, bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, false, nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return 0, false, invalidQuantity()
		}
		trimmed = strings.TrimSpace(inner)
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, invalidQuantity()
	}
	if value < 0 || value != math.Trunc(value) {
		return 0, false, invalidQuantity()
	}
	// Cap before converting: a float beyond int range would wrap negative.
	if value > math.MaxInt32 {
		return 0, false, invalidQuantity()
	}
	return int(value), true, nil
}

func invalidQuantity() error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be a number >= 0")
}

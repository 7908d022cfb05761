package store

import (
	"context"
	"errors"

	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
)

// Failover serves every operation from the durable store when it is ready and
// transparently re-runs it on the in-process fallback otherwise. Domain
// outcomes (not found, duplicate email, out of stock) pass through untouched;
// only connectivity-shaped failures trigger the second attempt.
type Failover struct {
	durable  Store
	fallback Store
	logg     *logger.Logger
}

// NewFailover builds the dual-backend store. durable may be nil when the
// process runs without a database; fallback is required.
func NewFailover(durable, fallback Store, logg *logger.Logger) *Failover {
	return &Failover{durable: durable, fallback: fallback, logg: logg}
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrOutOfStock)
}

// run executes op against the durable store first, falling back on
// connectivity failure. Implemented as a free function because methods cannot
// be generic.
func run[T any](ctx context.Context, f *Failover, op func(Store) (T, error)) (T, error) {
	if f.durable != nil && f.durable.Ready(ctx) {
		value, err := op(f.durable)
		if err == nil || isDomainError(err) {
			return value, err
		}
		if f.logg != nil {
			f.logg.Warn(f.logg.WithField(ctx, "error", err.Error()), "durable store failed, using fallback")
		}
	}
	return op(f.fallback)
}

func (f *Failover) CreateUser(ctx context.Context, user *User) error {
	_, err := run(ctx, f, func(s Store) (struct{}, error) {
		return struct{}{}, s.CreateUser(ctx, user)
	})
	return err
}

func (f *Failover) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return run(ctx, f, func(s Store) (*User, error) {
		return s.GetUserByEmail(ctx, email)
	})
}

func (f *Failover) GetUserByID(ctx context.Context, id string) (*User, error) {
	return run(ctx, f, func(s Store) (*User, error) {
		return s.GetUserByID(ctx, id)
	})
}

func (f *Failover) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := run(ctx, f, func(s Store) (struct{}, error) {
		return struct{}{}, s.UpdateUserPassword(ctx, id, passwordHash)
	})
	return err
}

func (f *Failover) CreateBook(ctx context.Context, book *Book) error {
	_, err := run(ctx, f, func(s Store) (struct{}, error) {
		return struct{}{}, s.CreateBook(ctx, book)
	})
	return err
}

func (f *Failover) GetBook(ctx context.Context, id string) (*Book, error) {
	return run(ctx, f, func(s Store) (*Book, error) {
		return s.GetBook(ctx, id)
	})
}

func (f *Failover) ListBooks(ctx context.Context) ([]*Book, error) {
	return run(ctx, f, func(s Store) ([]*Book, error) {
		return s.ListBooks(ctx)
	})
}

func (f *Failover) SearchBooks(ctx context.Context, filter BookFilter) ([]*Book, error) {
	return run(ctx, f, func(s Store) ([]*Book, error) {
		return s.SearchBooks(ctx, filter)
	})
}

func (f *Failover) UpdateBook(ctx context.Context, book *Book) error {
	_, err := run(ctx, f, func(s Store) (struct{}, error) {
		return struct{}{}, s.UpdateBook(ctx, book)
	})
	return err
}

func (f *Failover) DeleteBook(ctx context.Context, id string) error {
	_, err := run(ctx, f, func(s Store) (struct{}, error) {
		return struct{}{}, s.DeleteBook(ctx, id)
	})
	return err
}

func (f *Failover) DecrementQuantity(ctx context.Context, id string) (int, error) {
	return run(ctx, f, func(s Store) (int, error) {
		return s.DecrementQuantity(ctx, id)
	})
}

// Ready reports true when either backend can serve; the fallback always can.
func (f *Failover) Ready(ctx context.Context) bool {
	if f.durable != nil && f.durable.Ready(ctx) {
		return true
	}
	return f.fallback != nil
}

// DurableReady reports the durable backend's connectivity alone. The
// bootstrap seeder gates on this.
func (f *Failover) DurableReady(ctx context.Context) bool {
	return f.durable != nil && f.durable.Ready(ctx)
}

func (f *Failover) Close(ctx context.Context) error {
	var first error
	if f.durable != nil {
		if err := f.durable.Close(ctx); err != nil {
			first = err
		}
	}
	if f.fallback != nil {
		if err := f.fallback.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

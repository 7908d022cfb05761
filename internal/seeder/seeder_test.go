package seeder

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/internal/store/memstore"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/security"
)

var testAdmin = config.AdminSeedConfig{
	Email:    "Admin@Example.com",
	Password: "bootstrap-pw",
	Name:     "Admin",
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

// gatedStore delays readiness so tests can model a database that comes up
// after the process does.
type gatedStore struct {
	*memstore.Store
	ready atomic.Bool
}

func (g *gatedStore) Ready(ctx context.Context) bool { return g.ready.Load() }

func TestEnsureCreatesAdminOnce(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	if err := Ensure(ctx, st, testAdmin, config.PasswordConfig{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := Ensure(ctx, st, testAdmin, config.PasswordConfig{}); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	admin, err := st.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("lookup admin: %v", err)
	}
	if admin.Role != store.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}

	ok, err := security.VerifyPassword("bootstrap-pw", admin.PasswordHash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected seeded password to verify")
	}
}

func TestEnsureSkipsWithoutCredentials(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	if err := Ensure(ctx, st, config.AdminSeedConfig{Name: "Admin"}, config.PasswordConfig{}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if _, err := st.GetUserByEmail(ctx, "admin@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no seeded account, got %v", err)
	}
}

func TestRunWaitsForReadiness(t *testing.T) {
	gated := &gatedStore{Store: memstore.New()}
	s, err := New(Params{
		Durable:  gated,
		Admin:    testAdmin,
		Password: config.PasswordConfig{},
		Seeder:   config.SeederConfig{Interval: 5 * time.Millisecond, MaxAttempts: 50},
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("build seeder: %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		gated.ready.Store(true)
	}()

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("seeder did not finish")
	}

	if _, err := gated.GetUserByEmail(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("expected admin after readiness, got %v", err)
	}
}

func TestRunGivesUpAfterMaxAttempts(t *testing.T) {
	gated := &gatedStore{Store: memstore.New()}
	s, err := New(Params{
		Durable:  gated,
		Admin:    testAdmin,
		Password: config.PasswordConfig{},
		Seeder:   config.SeederConfig{Interval: time.Millisecond, MaxAttempts: 3},
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("build seeder: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("seeder should give up, not spin forever")
	}

	if _, err := gated.GetUserByEmail(context.Background(), "admin@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no admin while never ready, got %v", err)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	gated := &gatedStore{Store: memstore.New()}
	s, err := New(Params{
		Durable:  gated,
		Admin:    testAdmin,
		Password: config.PasswordConfig{},
		Seeder:   config.SeederConfig{Interval: time.Hour, MaxAttempts: 10},
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("build seeder: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("seeder must stop on context cancellation")
	}
}

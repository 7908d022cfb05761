// Package seeder provisions the bootstrap administrator account. The durable
// store may come up after the process does, so seeding retries in the
// background instead of blocking startup.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/security"
)

// Seeder retries admin provisioning against the durable store until it
// succeeds or runs out of attempts. Failures are logged, never fatal.
type Seeder struct {
	durable     store.Store
	admin       config.AdminSeedConfig
	pwCfg       config.PasswordConfig
	interval    time.Duration
	maxAttempts int
	logg        *logger.Logger
}

// Params bundles the dependencies required to build a seeder.
type Params struct {
	Durable  store.Store
	Admin    config.AdminSeedConfig
	Password config.PasswordConfig
	Seeder   config.SeederConfig
	Logger   *logger.Logger
}

// New constructs a seeder with the provided dependencies.
func New(params Params) (*Seeder, error) {
	if params.Durable == nil {
		return nil, fmt.Errorf("durable store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	interval := params.Seeder.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxAttempts := params.Seeder.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Seeder{
		durable:     params.Durable,
		admin:       params.Admin,
		pwCfg:       params.Password,
		interval:    interval,
		maxAttempts: maxAttempts,
		logg:        params.Logger,
	}, nil
}

// Run attempts seeding immediately and then on every tick until it succeeds,
// the attempts run out, or the context is cancelled. It blocks and is meant
// to be launched on its own goroutine.
func (s *Seeder) Run(ctx context.Context) {
	if !s.admin.Enabled() {
		s.logg.Debug(ctx, "admin seeding disabled, no credentials configured")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if s.attempt(ctx, attempt) {
			s.logg.Info(s.logg.WithField(ctx, "attempt", attempt), "admin account seeded")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	s.logg.Warn(s.logg.WithField(ctx, "attempts", s.maxAttempts), "admin seeding gave up")
}

func (s *Seeder) attempt(ctx context.Context, attempt int) bool {
	if !s.durable.Ready(ctx) {
		s.logg.Debug(s.logg.WithField(ctx, "attempt", attempt), "durable store not ready, seeding deferred")
		return false
	}
	if err := Ensure(ctx, s.durable, s.admin, s.pwCfg); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"attempt": attempt, "error": err.Error()}), "admin seeding attempt failed")
		return false
	}
	return true
}

// Ensure creates the configured admin account in the given store when it is
// absent. Calling it again is a no-op; a concurrent duplicate insert is
// treated as success.
func Ensure(ctx context.Context, st store.UserStore, admin config.AdminSeedConfig, pwCfg config.PasswordConfig) error {
	if !admin.Enabled() {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if _, err := st.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := security.HashPassword(admin.Password, pwCfg)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := &store.User{
		Name:         admin.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         store.RoleAdmin,
	}
	if err := st.CreateUser(ctx, user); err != nil && !errors.Is(err, store.ErrEmailExists) {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

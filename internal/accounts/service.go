// Package accounts implements registration, login, and profile lookup on top
// of the shared store contract.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/security"
	"github.com/prensprays-byte/library-inventory-system/pkg/token"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	CurrentUser(ctx context.Context, id string) (*UserDTO, error)
}

type service struct {
	store  store.Store
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	logg   *logger.Logger
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an accounts
// service.
type ServiceParams struct {
	Store          store.Store
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

// NewService constructs an accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:  params.Store,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordConfig,
		logg:   params.Logger,
		now:    now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	missing := missingFields([]field{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
	})
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeMissingFields, "missing required fields").WithMissing(missing)
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &store.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         store.ParseRole(req.Role),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, pkgerrors.New(pkgerrors.CodeEmailExists, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issue(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	missing := missingFields([]field{
		{"email", req.Email},
		{"password", req.Password},
	})
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeMissingFields, "missing required fields").WithMissing(missing)
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := s.verify(ctx, user, req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	return s.issue(user)
}

func (s *service) CurrentUser(ctx context.Context, id string) (*UserDTO, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromUser(user), nil
}

// verify checks the supplied password against the stored credential. Accounts
// imported before hashing carry a plaintext credential; the first successful
// login replaces it with an argon2id hash. The migration is one-way and a
// failed write only defers it to the next login.
func (s *service) verify(ctx context.Context, user *store.User, password string) (bool, error) {
	if user.PasswordHash != "" {
		return security.VerifyPassword(password, user.PasswordHash)
	}
	if user.LegacyPassword == "" {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(user.LegacyPassword), []byte(password)) != 1 {
		return false, nil
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return false, err
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "password migration deferred")
	} else {
		user.PasswordHash = hash
		user.LegacyPassword = ""
	}
	return true, nil
}

func (s *service) issue(user *store.User) (*AuthResponse, error) {
	signed, err := token.Issue(s.jwtCfg, s.now().UTC(), user.ID, string(user.Role), user.Email, user.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign token")
	}
	return &AuthResponse{Token: signed, User: FromUser(user)}, nil
}

type field struct {
	name  string
	value string
}

func missingFields(fields []field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

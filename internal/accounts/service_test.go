package accounts

import (
	"context"
	"io"
	"testing"

	"github.com/prensprays-byte/library-inventory-system/internal/store"
	"github.com/prensprays-byte/library-inventory-system/internal/store/memstore"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	"github.com/prensprays-byte/library-inventory-system/pkg/token"
)

var testJWT = config.JWTConfig{Secret: "test-secret", TTLDays: 7}

func newTestService(t *testing.T) (Service, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	svc, err := NewService(ServiceParams{
		Store:          st,
		JWTConfig:      testJWT,
		PasswordConfig: config.PasswordConfig{},
		Logger:         logger.New(logger.Options{Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, st
}

func errCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	return typed.Code()
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Role != store.RoleReader {
		t.Fatalf("expected default reader role, got %s", registered.User.Role)
	}
	if registered.User.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", registered.User.Email)
	}

	claims, err := token.Verify(testJWT, registered.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("token identity mismatch: %s vs %s", claims.UserID, registered.User.ID)
	}
	if claims.Role != string(store.RoleReader) {
		t.Fatalf("expected reader claim, got %s", claims.Role)
	}

	loggedIn, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login returned a different identity")
	}
}

func TestRegisterAdminRoleRequiresExactMatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		requested string
		want      store.Role
	}{
		{"admin", store.RoleAdmin},
		{" admin ", store.RoleReader},
		{"Admin", store.RoleReader},
		{"superadmin", store.RoleReader},
		{"", store.RoleReader},
	}
	for i, tc := range cases {
		resp, err := svc.Register(ctx, RegisterRequest{
			Name:     "U",
			Email:    string(rune('a'+i)) + "@example.com",
			Password: "pw",
			Role:     tc.requested,
		})
		if err != nil {
			t.Fatalf("register %q: %v", tc.requested, err)
		}
		if resp.User.Role != tc.want {
			t.Fatalf("role %q: expected %s, got %s", tc.requested, tc.want, resp.User.Role)
		}
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.c"})
	if got := errCode(t, err); got != pkgerrors.CodeMissingFields {
		t.Fatalf("expected missing_fields, got %s", got)
	}

	missing := pkgerrors.As(err).Missing()
	if len(missing) != 2 || missing[0] != "name" || missing[1] != "password" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "dup@example.com", Password: "pw"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterRequest{Name: "B", Email: "DUP@EXAMPLE.COM", Password: "pw"})
	if got := errCode(t, err); got != pkgerrors.CodeEmailExists {
		t.Fatalf("expected email_exists, got %s", got)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "wrong"})
		if got := errCode(t, err); got != pkgerrors.CodeInvalidCredentials {
			t.Fatalf("expected invalid_credentials, got %s", got)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "right"})
		if got := errCode(t, err); got != pkgerrors.CodeInvalidCredentials {
			t.Fatalf("expected invalid_credentials, got %s", got)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{})
		if got := errCode(t, err); got != pkgerrors.CodeMissingFields {
			t.Fatalf("expected missing_fields, got %s", got)
		}
	})
}

func TestLoginMigratesLegacyPlaintextCredential(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	legacy := &store.User{
		Name:           "Old Timer",
		Email:          "old@example.com",
		LegacyPassword: "plain-pw",
		Role:           store.RoleReader,
	}
	if err := st.CreateUser(ctx, legacy); err != nil {
		t.Fatalf("seed legacy user: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "old@example.com", Password: "plain-pw"}); err != nil {
		t.Fatalf("legacy login: %v", err)
	}

	migrated, err := st.GetUserByID(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if migrated.PasswordHash == "" {
		t.Fatalf("expected hash after migration")
	}
	if migrated.LegacyPassword != "" {
		t.Fatalf("expected plaintext credential to be gone")
	}

	// Second login runs against the hash.
	if _, err := svc.Login(ctx, LoginRequest{Email: "old@example.com", Password: "plain-pw"}); err != nil {
		t.Fatalf("post-migration login: %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "old@example.com", Password: "not-it"})
	if got := errCode(t, err); got != pkgerrors.CodeInvalidCredentials {
		t.Fatalf("expected invalid_credentials, got %s", got)
	}
}

func TestLoginLegacyWrongPasswordDoesNotMigrate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	legacy := &store.User{Name: "L", Email: "l@example.com", LegacyPassword: "keep-me"}
	if err := st.CreateUser(ctx, legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "l@example.com", Password: "guess"}); err == nil {
		t.Fatalf("expected login to fail")
	}

	stored, err := st.GetUserByID(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.LegacyPassword != "keep-me" || stored.PasswordHash != "" {
		t.Fatalf("failed comparison must not trigger migration: %+v", stored)
	}
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.CurrentUser(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	_, err = svc.CurrentUser(ctx, "missing-id")
	if got := errCode(t, err); got != pkgerrors.CodeNotFound {
		t.Fatalf("expected not_found, got %s", got)
	}
}

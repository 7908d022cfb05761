package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/prensprays-byte/library-inventory-system/api/responses"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
	"github.com/prensprays-byte/library-inventory-system/pkg/logger"
	pkgtoken "github.com/prensprays-byte/library-inventory-system/pkg/token"
)

// Auth validates a bearer token and seeds the request context with the
// claims. A missing credential and an unverifiable one are distinct failures:
// the first reports unauthorized, the second invalid_token.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgtoken.Verify(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			ctx = context.WithValue(ctx, ctxUserEmail, claims.Email)
			ctx = context.WithValue(ctx, ctxUserName, claims.Name)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID,
					"role":    claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

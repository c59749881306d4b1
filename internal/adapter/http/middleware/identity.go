package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/orderledger/internal/infrastructure/auth"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// WithOwnerID returns a copy of ctx carrying the caller's owner ID. The
// request logger, if any, gains an owner_id field.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("owner_id", ownerID)
	})
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerIDFromContext extracts the caller's owner ID.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	return ownerID, ok && ownerID != ""
}

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// HeaderIdentity trusts the owner ID in header, as set by an upstream proxy.
func HeaderIdentity(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID := strings.TrimSpace(r.Header.Get(header))
			if ownerID == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing "+header+" header")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}

// JWTIdentity takes the owner ID from the subject of a bearer token.
func JWTIdentity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), claims.OwnerID())))
		})
	}
}

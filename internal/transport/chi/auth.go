package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/satvach/internal/auth"
	"github.com/kailas-cloud/satvach/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Authenticator resolves a bearer credential into an identity.
type Authenticator interface {
	Authenticate(credential string) (auth.Identity, error)
}

type identityKey struct{}

// ContextWithIdentity stores the caller identity in the context.
func ContextWithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, anonymous if none was resolved.
func IdentityFromContext(ctx context.Context) auth.Identity {
	if id, ok := ctx.Value(identityKey{}).(auth.Identity); ok {
		return id
	}
	return auth.Anonymous
}

// BearerAuthMiddleware resolves the Authorization header into an identity.
// Requests without the header proceed anonymously; a header that does not
// verify is rejected with 401.
func BearerAuthMiddleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			id, err := a.Authenticate(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				logger.FromContext(r.Context()).Info("authentication failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid credentials")
				return
			}

			ctx := ContextWithIdentity(r.Context(), id)
			ctx = logger.With(ctx, zap.String("caller_id", id.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		switch {
		case id.IsAnonymous():
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing authorization header")
		case !id.Admin:
			writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin role required")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

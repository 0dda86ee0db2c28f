package httpx

import (
	"context"
	"net/http"

	"bookstore-backend/internal/auth"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "bookstore_session"

type ctxKey int

const identityKey ctxKey = iota

// SessionMiddleware resolves the session cookie into an identity. Requests
// without a valid session pass through with no identity; handlers decide
// whether that is an error.
func SessionMiddleware(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				if id, err := authSvc.Identify(r.Context(), c.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFrom returns the authenticated identity, or nil.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}

// WithIdentity is used by handlers' tests and by anything that already holds
// a verified identity.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

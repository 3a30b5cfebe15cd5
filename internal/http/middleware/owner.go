package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultOwnerCookie names the cookie carrying the conversation owner id.
const DefaultOwnerCookie = "reservation_owner"

const ownerCookieMaxAge = 30 * 24 * time.Hour

type ownerKey struct{}

// Owner scopes every request to a conversation owner. The owner id is read
// from cookieName; a missing or malformed cookie is replaced by a fresh UUID
// which is set on the response.
func Owner(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultOwnerCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					owner = id.String()
				}
			}
			if owner == "" {
				owner = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    owner,
					Path:     "/",
					MaxAge:   int(ownerCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   r.TLS != nil,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// WithOwner returns a context carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner id set by Owner, or "".
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

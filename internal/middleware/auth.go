package middleware

import (
	"context"
	"net/http"

	"github.com/lbatschelet/feelvonroll-admin/internal/session"
)

type authCtxKey int

const sessionKey authCtxKey = 7

// CookieName is the console session cookie.
const CookieName = "fvr_session"

// SessionLookup resolves a cookie value to a live session.
type SessionLookup interface {
	Lookup(cookie string) (*session.Session, bool)
}

// WithSession attaches the console session to the request context when the
// session cookie is present and valid.
func WithSession(mgr SessionLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			if s, ok := mgr.Lookup(c.Value); ok {
				ctx := context.WithValue(r.Context(), sessionKey, s)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests that carry no valid session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}

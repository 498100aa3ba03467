package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	auth "github.com/jcmexdev/aurora-storefront/internal/auth/domain"
)

// SessionResolver maps a session token to its signed-in user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (auth.User, error)
}

// Session stores the X-Session-Token in the context, along with the user it
// belongs to when the token is a signed-in session. Unknown tokens are guest
// sessions.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderSessionToken)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, token)
			user, err := resolver.Resolve(ctx, token)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, ContextKeyUser, user)
			case !errors.Is(err, auth.ErrSessionNotFound):
				slog.WarnContext(ctx, "session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken returns the request's session token, or "".
func SessionToken(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeySession).(string)
	return token
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(ctx context.Context) (auth.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(auth.User)
	return user, ok
}

// RequireUser rejects requests without a signed-in user.
func RequireUser(onFail func(w http.ResponseWriter, status int)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUser(r.Context()); !ok {
				onFail(w, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests unless the signed-in user is an admin.
func RequireAdmin(onFail func(w http.ResponseWriter, status int)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				onFail(w, http.StatusUnauthorized)
				return
			}
			if !user.IsAdmin() {
				onFail(w, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

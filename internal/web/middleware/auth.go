package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/services/auth"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// SessionCookieName is the cookie carrying the opaque session token
const SessionCookieName = "session"

// GetUser retrieves the authenticated user from the request context.
// Returns nil if no user is authenticated.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// Auth returns middleware that requires a valid session.
// Unauthenticated requests are redirected to the signin page; the
// protected handler is never invoked.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromSession(r, authService)
			if user == nil {
				// Keep the original destination so signin can return there
				redirectURL := "/signin?next=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, redirectURL, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it.
// Sets the user in context if authenticated, nil otherwise.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromSession(r, authService)
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromSession(r *http.Request, authService *auth.Service) *model.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	user, err := authService.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	return user
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"ya_projects/internal/logger"
	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type ctxKey struct{}

// UserFromContext returns the authenticated user or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// Middleware resolves the session cookie to a user. Missing, expired or
// forged cookies and deleted users leave the request anonymous.
func Middleware(sessions *Sessions, users storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessions.CookieName())
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromContext(r.Context())
			claims, err := sessions.Parse(cookie.Value)
			if err != nil {
				log.Debugf("Ignoring session cookie: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			id, err := claims.UserID()
			if err != nil {
				log.Debugf("Ignoring session subject: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.UserByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					log.Errorf("Failed to load session user: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireLogin redirects anonymous requests to loginURL?next=<requested path>.
func RequireLogin(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				http.Redirect(w, r, LoginRedirectURL(loginURL, r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirectURL builds loginURL?next=target keeping "/" unescaped.
func LoginRedirectURL(loginURL, target string) string {
	next := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return loginURL + "?next=" + next
}

// SafeRedirect returns next when it is a local absolute path and fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

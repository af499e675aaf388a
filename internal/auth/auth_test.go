package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ya_projects/internal/auth"
	"ya_projects/internal/models"
	"ya_projects/internal/storage"
	"ya_projects/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)
	require.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	require.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(memory.New())

	u, err := svc.Register(ctx, "Автор", "s3cret-pass")
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	_, err = svc.Register(ctx, "Автор", "other-pass")
	require.ErrorIs(t, err, storage.ErrConflict)

	got, err := svc.Authenticate(ctx, "Автор", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "Автор", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "Никто", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMiddleware(t *testing.T) {
	store := memory.New()
	sessions := auth.NewSessions("0123456789abcdef", time.Hour, "sessionid")
	u := &models.User{Username: "Автор"}
	require.NoError(t, store.CreateUser(context.Background(), u))

	var seen *models.User
	h := auth.Middleware(sessions, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.UserFromContext(r.Context())
	}))

	t.Run("valid cookie", func(t *testing.T) {
		cookie, err := sessions.Cookie(u)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, seen)
		require.Equal(t, u.ID, seen.ID)
	})

	t.Run("no cookie", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Nil(t, seen)
	})

	t.Run("forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: "forged"})
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Nil(t, seen)
	})

	t.Run("unknown user", func(t *testing.T) {
		cookie, err := sessions.Cookie(&models.User{ID: 999, Username: "ghost"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		h.ServeHTTP(httptest.NewRecorder(), req)
		require.Nil(t, seen)
	})
}

func TestRequireLogin(t *testing.T) {
	h := auth.RequireLogin("/auth/login/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/edit_comment/1/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/auth/login/?next=/edit_comment/1/", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/notes/", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: 1}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestLoginRedirectURL(t *testing.T) {
	require.Equal(t, "/auth/login/?next=/add/", auth.LoginRedirectURL("/auth/login/", "/add/"))
	require.Equal(t, "/auth/login/?next=/%3Fpage%3D2", auth.LoginRedirectURL("/auth/login/", "/?page=2"))
	require.Equal(t, "/auth/login/?next=/note/a%26b/", auth.LoginRedirectURL("/auth/login/", "/note/a&b/"))
}

func TestSafeRedirect(t *testing.T) {
	testCases := []struct {
		next string
		want string
	}{
		{next: "/notes/", want: "/notes/"},
		{next: "", want: "/"},
		{next: "https://evil.example/", want: "/"},
		{next: "//evil.example/", want: "/"},
		{next: "/\\evil.example", want: "/"},
		{next: "notes/", want: "/"},
	}
	for _, tc := range testCases {
		t.Run(tc.next, func(t *testing.T) {
			require.Equal(t, tc.want, auth.SafeRedirect(tc.next, "/"))
		})
	}
}

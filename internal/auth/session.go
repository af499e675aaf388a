package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ya_projects/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Sessions issues and verifies HS256-signed session cookies.
type Sessions struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	now        func() time.Time
}

func NewSessions(secret string, ttl time.Duration, cookieName string) *Sessions {
	return &Sessions{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		now:        time.Now,
	}
}

func (s *Sessions) CookieName() string { return s.cookieName }

// Issue signs a token for u.
func (s *Sessions) Issue(u *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry.
func (s *Sessions) Parse(token string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if !tok.Valid {
		return nil, errors.New("invalid session")
	}
	return &claims, nil
}

// Cookie builds the session cookie for u.
func (s *Sessions) Cookie(u *models.User) (*http.Cookie, error) {
	token, err := s.Issue(u)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Login sets the session cookie for u on w.
func (s *Sessions) Login(w http.ResponseWriter, u *models.User) error {
	cookie, err := s.Cookie(u)
	if err != nil {
		return err
	}
	http.SetCookie(w, cookie)
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

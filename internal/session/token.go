package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore is the fallback backend used when Redis is unavailable: the
// cookie value is an HS256-signed JWT carrying the session claims. There is
// no server-side state, so Destroy is a no-op and logout relies on the
// handler expiring the cookie.
type TokenStore struct {
	secret string
	ttl    time.Duration
}

type sessionClaims struct {
	UserID uint64 `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *TokenStore) TTL() time.Duration { return s.ttl }

// Create signs a token with the session claims and expiry.
func (s *TokenStore) Create(_ context.Context, userID uint64, email string) (string, error) {
	now := time.Now().UTC()
	c := sessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.secret))
}

// Get validates the signed cookie and returns the embedded session.
func (s *TokenStore) Get(_ context.Context, cookie string) (Session, error) {
	if cookie == "" {
		return Session{}, ErrNoSession
	}
	tok, err := jwt.ParseWithClaims(cookie, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrNoSession
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tok.Valid {
		return Session{}, ErrNoSession
	}
	c, ok := tok.Claims.(*sessionClaims)
	if !ok {
		return Session{}, ErrNoSession
	}
	return Session{UserID: c.UserID, Email: c.Email}, nil
}

// Destroy has no server-side state to clear in token mode.
func (s *TokenStore) Destroy(context.Context, string) error { return nil }

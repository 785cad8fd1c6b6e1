// Package session implements the browser session that gates every
// appointment operation. The primary store keeps sessions server-side in
// Redis under an opaque random identifier, so logout can destroy state on
// the server. When Redis is unreachable at startup the application degrades
// to signed stateless cookies; see token.go.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is the identity bound to one authenticated browser. Absence of a
// session is the default unauthenticated state, not an error condition.
type Session struct {
	UserID uint64 `json:"uid"`
	Email  string `json:"email"`
}

// ErrNoSession is returned when a cookie value does not resolve to a live
// session (missing, expired, destroyed, or tampered with).
var ErrNoSession = errors.New("no active session")

// Store creates, resolves and destroys browser sessions. The string handed
// out by Create is the cookie value; its shape depends on the backend.
type Store interface {
	Create(ctx context.Context, userID uint64, email string) (string, error)
	Get(ctx context.Context, cookie string) (Session, error)
	Destroy(ctx context.Context, cookie string) error
	TTL() time.Duration
}

// NewStore picks the backend: Redis-backed server-side sessions when a
// client is available, signed stateless cookies otherwise.
func NewStore(rdb *redis.Client, secret string, ttl time.Duration) Store {
	if rdb != nil {
		return &RedisStore{rdb: rdb, ttl: ttl}
	}
	return &TokenStore{secret: secret, ttl: ttl}
}

// RedisStore keeps session state under sess:<id> with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *RedisStore) TTL() time.Duration { return s.ttl }

// Create stores the session and returns its opaque identifier.
func (s *RedisStore) Create(ctx context.Context, userID uint64, email string) (string, error) {
	id, err := randomHex(32)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(Session{UserID: userID, Email: email})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, key(id), body, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id and refreshes its TTL so active browsers stay
// signed in.
func (s *RedisStore) Get(ctx context.Context, cookie string) (Session, error) {
	if cookie == "" {
		return Session{}, ErrNoSession
	}
	body, err := s.rdb.Get(ctx, key(cookie)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return Session{}, ErrNoSession
	}
	_ = s.rdb.Expire(ctx, key(cookie), s.ttl).Err()
	return sess, nil
}

// Destroy removes the server-side state. Destroying a session that no
// longer exists is a no-op.
func (s *RedisStore) Destroy(ctx context.Context, cookie string) error {
	if cookie == "" {
		return nil
	}
	return s.rdb.Del(ctx, key(cookie)).Err()
}

func key(id string) string { return "sess:" + id }

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/soundline/internal/core"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
)

// SessionStore keeps opaque session tokens in Redis. Only the SHA-256 of
// the token is stored, so a Redis dump never yields usable credentials.
// A per-user set indexes active sessions for bulk revocation.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create mints a new session and returns the raw token. The raw token is
// never persisted.
func (s *SessionStore) Create(
	ctx context.Context,
	userID string,
) (string, error) {
	token, err := core.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	hash := core.HashToken(token)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+hash, userID, s.ttl)
	pipe.SAdd(ctx, userIndexPrefix+userID, hash)
	pipe.Expire(ctx, userIndexPrefix+userID, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// Resolve maps a raw token to the owning user id.
func (s *SessionStore) Resolve(
	ctx context.Context,
	token string,
) (string, error) {
	hash := core.HashToken(token)

	userID, err := s.client.Get(ctx, sessionKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}

	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	hash := core.HashToken(token)

	userID, err := s.client.Get(ctx, sessionKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+hash)
	pipe.SRem(ctx, userIndexPrefix+userID, hash)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAll revokes every active session for a user.
func (s *SessionStore) DeleteAll(ctx context.Context, userID string) error {
	indexKey := userIndexPrefix + userID

	hashes, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(hashes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, sessionKeyPrefix+hash)
	}
	keys = append(keys, indexKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoRedirect = errors.New("no pending redirect")

// RedirectStore remembers where an unauthenticated visitor was headed
// when checkout bounced them to login. The entry is short-lived: the
// checkout attempt is abandoned, not suspended, and must be restarted
// after login.
type RedirectStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedirectStore(client *redis.Client) *RedirectStore {
	return &RedirectStore{
		client: client,
		ttl:    30 * time.Minute,
	}
}

func (s *RedirectStore) Save(ctx context.Context, sessionID, path string) error {
	if err := s.client.Set(ctx, redirectKey(sessionID), path, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Take returns and deletes the pending redirect path for a session.
func (s *RedirectStore) Take(ctx context.Context, sessionID string) (string, error) {
	path, err := s.client.GetDel(ctx, redirectKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoRedirect
	}
	if err != nil {
		return "", fmt.Errorf("redis getdel failed: %w", err)
	}
	return path, nil
}

func redirectKey(sessionID string) string {
	return fmt.Sprintf("pending_redirect:%s", sessionID)
}

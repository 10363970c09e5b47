package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SessionDenylist records revoked session token ids until the token would
// have expired anyway.
type SessionDenylist struct {
	client *redisv9.Client
}

func NewSessionDenylist(client *redisv9.Client) *SessionDenylist {
	return &SessionDenylist{client: client}
}

func (d *SessionDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke session failed: %w", err)
	}
	return nil
}

func (d *SessionDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked session failed: %w", err)
	}
	return exists > 0, nil
}

func (d *SessionDenylist) key(tokenID string) string {
	return fmt.Sprintf("session:revoked:%s", tokenID)
}

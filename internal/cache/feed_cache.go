package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"vidshare/internal/model"
)

const (
	feedKey        = "video:feed"
	feedDirtyKey   = "video:feed:dirty"
	feedVersionKey = "video:feed:version"
)

var errStaleFeed = errors.New("feed version changed")

// FeedCache stores the newest-first video list. Every write bumps a version
// counter and sets a short-lived dirty marker; a reader may only store the
// list it loaded if the version it read beforehand is still current.
type FeedCache struct {
	client         *redisv9.Client
	feedTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewFeedCache(client *redisv9.Client, feedTTL, dirtyMarkerTTL time.Duration) *FeedCache {
	if feedTTL <= 0 {
		feedTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &FeedCache{
		client:         client,
		feedTTL:        feedTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *FeedCache) GetFeed(ctx context.Context) ([]model.Video, bool, error) {
	raw, err := c.client.Get(ctx, feedKey).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get feed failed: %w", err)
	}

	videos := make([]model.Video, 0)
	if err := json.Unmarshal(raw, &videos); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached feed failed: %w", err)
	}
	return videos, true, nil
}

// Version returns the current write generation, 0 before the first write.
func (c *FeedCache) Version(ctx context.Context) (int64, error) {
	return readVersion(ctx, c.client)
}

// SetFeed stores videos only if no write happened since version was read.
// It reports whether the list was stored.
func (c *FeedCache) SetFeed(ctx context.Context, videos []model.Video, version int64) (bool, error) {
	payload, err := marshalFeed(videos)
	if err != nil {
		return false, err
	}

	err = c.client.Watch(ctx, func(tx *redisv9.Tx) error {
		current, err := readVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleFeed
		}
		_, err = tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			pipe.Set(ctx, feedKey, payload, c.feedTTL)
			return nil
		})
		return err
	}, feedVersionKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleFeed), errors.Is(err, redisv9.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("redis set feed failed: %w", err)
	}
}

// Invalidate bumps the version, marks the list dirty and drops it in one
// transaction.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, feedVersionKey)
	pipe.Set(ctx, feedDirtyKey, "1", c.dirtyMarkerTTL)
	pipe.Del(ctx, feedKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate feed failed: %w", err)
	}
	return nil
}

func (c *FeedCache) IsDirty(ctx context.Context) (bool, error) {
	exists, err := c.client.Exists(ctx, feedDirtyKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis check feed dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

// Refresh stores a freshly loaded list and clears the dirty marker. It is
// used by the event worker, which reloads after every write.
func (c *FeedCache) Refresh(ctx context.Context, videos []model.Video) error {
	payload, err := marshalFeed(videos)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, feedKey, payload, c.feedTTL)
	pipe.Del(ctx, feedDirtyKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis refresh feed failed: %w", err)
	}
	return nil
}

func marshalFeed(videos []model.Video) ([]byte, error) {
	if videos == nil {
		videos = []model.Video{}
	}
	payload, err := json.Marshal(videos)
	if err != nil {
		return nil, fmt.Errorf("marshal feed cache failed: %w", err)
	}
	return payload, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
}

func readVersion(ctx context.Context, cmd stringGetter) (int64, error) {
	version, err := cmd.Get(ctx, feedVersionKey).Int64()
	if err == redisv9.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get feed version failed: %w", err)
	}
	return version, nil
}

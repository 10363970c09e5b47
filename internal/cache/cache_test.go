package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshare/internal/model"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFeedCache_RoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	feed := NewFeedCache(client, time.Minute, 5*time.Second)

	_, hit, err := feed.GetFeed(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	version, err := feed.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	videos := []model.Video{{ID: "v1", Title: "t", Description: "d", VideoURL: "/v.mp4", Controls: true}}
	stored, err := feed.SetFeed(ctx, videos, version)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(feedKey))

	cached, hit, err := feed.GetFeed(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "v1", cached[0].ID)

	require.NoError(t, feed.Invalidate(ctx))
	assert.False(t, mr.Exists(feedKey))
	assert.Equal(t, 5*time.Second, mr.TTL(feedDirtyKey))

	dirty, err := feed.IsDirty(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	version, err = feed.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	mr.FastForward(6 * time.Second)
	dirty, err = feed.IsDirty(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestFeedCache_SetFeedRejectsOlderVersion(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	feed := NewFeedCache(client, time.Minute, time.Second)

	loadedAt, err := feed.Version(ctx)
	require.NoError(t, err)

	// A write lands after the reader loaded its list.
	require.NoError(t, feed.Invalidate(ctx))
	mr.FastForward(2 * time.Second)

	stored, err := feed.SetFeed(ctx, []model.Video{}, loadedAt)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(feedKey))

	current, err := feed.Version(ctx)
	require.NoError(t, err)
	stored, err = feed.SetFeed(ctx, []model.Video{{ID: "v1"}}, current)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestFeedCache_RefreshClearsDirty(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	feed := NewFeedCache(client, time.Minute, time.Minute)

	require.NoError(t, feed.Invalidate(ctx))
	require.NoError(t, feed.Refresh(ctx, nil))

	dirty, err := feed.IsDirty(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	cached, hit, err := feed.GetFeed(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
}

func TestSessionDenylist(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	denylist := NewSessionDenylist(client)
	id := uuid.NewString()

	revoked, err := denylist.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, id, time.Now().Add(time.Minute)))
	revoked, err = denylist.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("session:revoked:" + id)
	assert.Greater(t, ttl, 50*time.Second)
	assert.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute)
	revoked, err = denylist.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	past := uuid.NewString()
	require.NoError(t, denylist.Revoke(ctx, past, time.Now().Add(-time.Minute)))
	revoked, err = denylist.IsRevoked(ctx, past)
	require.NoError(t, err)
	assert.False(t, revoked)
}

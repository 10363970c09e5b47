package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidshare/internal/model"
)

type staticLoader struct {
	videos []model.Video
	err    error
	calls  int
}

func (l *staticLoader) ListNewestFirst(context.Context) ([]model.Video, error) {
	l.calls++
	return l.videos, l.err
}

type capturingRefresher struct {
	refreshed [][]model.Video
}

func (r *capturingRefresher) Refresh(_ context.Context, videos []model.Video) error {
	r.refreshed = append(r.refreshed, videos)
	return nil
}

func eventBody(t *testing.T, eventType string) []byte {
	t.Helper()
	body, err := json.Marshal(model.VideoEvent{Type: eventType, VideoID: "v1", OccurredAt: time.Now()})
	require.NoError(t, err)
	return body
}

func TestFeedRefreshWorker_Process(t *testing.T) {
	loader := &staticLoader{videos: []model.Video{{ID: "v2"}, {ID: "v1"}}}
	refresher := &capturingRefresher{}
	w := NewFeedRefreshWorker(nil, loader, refresher, "video.events")

	require.NoError(t, w.Process(context.Background(), eventBody(t, model.VideoEventCreated)))
	require.NoError(t, w.Process(context.Background(), eventBody(t, model.VideoEventDeleted)))

	assert.Equal(t, 2, loader.calls)
	require.Len(t, refresher.refreshed, 2)
	assert.Equal(t, "v2", refresher.refreshed[0][0].ID)
}

func TestFeedRefreshWorker_ProcessRejectsBadPayloads(t *testing.T) {
	loader := &staticLoader{}
	refresher := &capturingRefresher{}
	w := NewFeedRefreshWorker(nil, loader, refresher, "video.events")

	assert.Error(t, w.Process(context.Background(), []byte("{not json")))
	assert.Error(t, w.Process(context.Background(), eventBody(t, "video.renamed")))
	assert.Equal(t, 0, loader.calls)
	assert.Empty(t, refresher.refreshed)
}

func TestFeedRefreshWorker_ProcessLoaderFailure(t *testing.T) {
	loader := &staticLoader{err: errors.New("db down")}
	refresher := &capturingRefresher{}
	w := NewFeedRefreshWorker(nil, loader, refresher, "video.events")

	err := w.Process(context.Background(), eventBody(t, model.VideoEventCreated))
	require.Error(t, err)
	assert.Empty(t, refresher.refreshed)
}

func TestFeedRefreshWorker_CloseWithoutStart(t *testing.T) {
	w := NewFeedRefreshWorker(nil, &staticLoader{}, &capturingRefresher{}, "video.events")
	w.Close()
}

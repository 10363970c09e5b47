package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vidshare/internal/model"
)

var ErrVideoNotFound = errors.New("video not found")

var youTubeIDPattern = regexp.MustCompile(`(?:watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

type VideoStore interface {
	Create(ctx context.Context, video *model.Video) error
	ListNewestFirst(ctx context.Context) ([]model.Video, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// FeedCache is versioned: Invalidate bumps the version and SetFeed refuses to
// store a list loaded under an older one.
type FeedCache interface {
	GetFeed(ctx context.Context) ([]model.Video, bool, error)
	Version(ctx context.Context) (int64, error)
	SetFeed(ctx context.Context, videos []model.Video, version int64) (bool, error)
	Invalidate(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

type VideoEventPublisher interface {
	Publish(ctx context.Context, event model.VideoEvent) error
}

type VideoService struct {
	videos    VideoStore
	feedCache FeedCache
	publisher VideoEventPublisher
	now       func() time.Time
}

type CreateVideoInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	// Controls defaults to true when nil.
	Controls *bool
	OwnerID  string
}

// NewVideoService accepts nil feedCache and publisher; the service then reads
// straight from the store and emits no events.
func NewVideoService(videos VideoStore, feedCache FeedCache, publisher VideoEventPublisher) *VideoService {
	return &VideoService{
		videos:    videos,
		feedCache: feedCache,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *VideoService) List(ctx context.Context) ([]model.Video, error) {
	fill := false
	var version int64
	if s.feedCache != nil {
		fill = s.feedCacheClean(ctx)
		if fill {
			if cached, hit, err := s.feedCache.GetFeed(ctx); err == nil && hit {
				return cached, nil
			}
			var err error
			if version, err = s.feedCache.Version(ctx); err != nil {
				log.Warn().Err(err).Msg("read feed version failed")
				fill = false
			}
		}
	}

	videos, err := s.videos.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []model.Video{}
	}

	// A write may have landed during the load.
	if fill && s.feedCacheClean(ctx) {
		if _, err := s.feedCache.SetFeed(ctx, videos, version); err != nil {
			log.Warn().Err(err).Msg("populate feed cache failed")
		}
	}
	return videos, nil
}

func (s *VideoService) feedCacheClean(ctx context.Context) bool {
	dirty, err := s.feedCache.IsDirty(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("feed cache unavailable")
		return false
	}
	return !dirty
}

func (s *VideoService) Create(ctx context.Context, input CreateVideoInput) (*model.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	videoURL := strings.TrimSpace(input.VideoURL)
	if title == "" || description == "" || videoURL == "" {
		return nil, ErrInvalidInput
	}

	controls := true
	if input.Controls != nil {
		controls = *input.Controls
	}

	video := &model.Video{
		Title:        title,
		Description:  description,
		VideoURL:     NormalizeVideoURL(videoURL),
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		Controls:     controls,
		OwnerID:      input.OwnerID,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, model.VideoEventCreated, video.ID)
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	deleted, err := s.videos.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrVideoNotFound
	}

	s.afterWrite(ctx, model.VideoEventDeleted, id)
	return nil
}

// afterWrite runs once the write is committed, so failures here are logged
// and never reported to the caller.
func (s *VideoService) afterWrite(ctx context.Context, eventType, videoID string) {
	if s.feedCache != nil {
		if err := s.feedCache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Str("video_id", videoID).Msg("invalidate feed cache failed")
		}
	}
	if s.publisher != nil {
		event := model.VideoEvent{Type: eventType, VideoID: videoID, OccurredAt: s.now().UTC()}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Str("video_id", videoID).Str("event", eventType).Msg("publish video event failed")
		}
	}
}

// NormalizeVideoURL rewrites YouTube watch and short links to the embeddable
// form. Anything else is returned unchanged.
func NormalizeVideoURL(raw string) string {
	match := youTubeIDPattern.FindStringSubmatch(raw)
	if match == nil {
		return raw
	}
	return "https://www.youtube.com/embed/" + match[1]
}

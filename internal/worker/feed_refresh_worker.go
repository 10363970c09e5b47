package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"vidshare/internal/model"
	"vidshare/internal/platform/rabbitmq"
)

type FeedLoader interface {
	ListNewestFirst(ctx context.Context) ([]model.Video, error)
}

type FeedRefresher interface {
	Refresh(ctx context.Context, videos []model.Video) error
}

// FeedRefreshWorker consumes video events and rebuilds the cached feed so
// the next reader after a write does not pay for the full scan.
type FeedRefreshWorker struct {
	conn      *amqp.Connection
	loader    FeedLoader
	refresher FeedRefresher
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFeedRefreshWorker(conn *amqp.Connection, loader FeedLoader, refresher FeedRefresher, queueName string) *FeedRefreshWorker {
	return &FeedRefreshWorker{
		conn:      conn,
		loader:    loader,
		refresher: refresher,
		queueName: queueName,
	}
}

func (w *FeedRefreshWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareVideoEventsQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	log.Info().Str("queue", w.queueName).Msg("feed refresh worker started")
	return nil
}

func (w *FeedRefreshWorker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.Process(ctx, d.Body); err != nil {
		log.Error().Err(err).Str("queue", w.queueName).Msg("feed refresh failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// Process handles one event payload.
func (w *FeedRefreshWorker) Process(ctx context.Context, body []byte) error {
	var event model.VideoEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode video event failed: %w", err)
	}
	switch event.Type {
	case model.VideoEventCreated, model.VideoEventDeleted:
	default:
		return fmt.Errorf("unknown video event type %q", event.Type)
	}

	videos, err := w.loader.ListNewestFirst(ctx)
	if err != nil {
		return fmt.Errorf("reload feed failed: %w", err)
	}
	if err := w.refresher.Refresh(ctx, videos); err != nil {
		return err
	}

	log.Debug().Str("event", event.Type).Str("video_id", event.VideoID).Int("videos", len(videos)).Msg("feed refreshed")
	return nil
}

func (w *FeedRefreshWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vidshare/internal/cache"
	"vidshare/internal/config"
	"vidshare/internal/logger"
	mysqlClient "vidshare/internal/platform/mysql"
	rabbitmqClient "vidshare/internal/platform/rabbitmq"
	redisClient "vidshare/internal/platform/redis"
	"vidshare/internal/repository"
	"vidshare/internal/storage"
	"vidshare/internal/worker"
)

type App struct {
	Config *config.Config
	DB     *mysqlClient.Connector
	// Redis and MQConn are nil when disabled in config.
	Redis      *redis.Client
	MQConn     *amqp.Connection
	Signer     storage.UploadSigner
	FeedWorker *worker.FeedRefreshWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger.Init(cfg.App.LogLevel, cfg.App.Env == "dev")

	app := &App{
		Config:    cfg,
		DB:        mysqlClient.NewConnector(mysqlClient.Dialer(cfg.MySQLDSN())),
		StartedAt: time.Now(),
	}

	// The connector retries on the next request, so an unreachable database
	// does not block startup.
	if _, err := app.DB.DB(ctx); err != nil {
		log.Warn().Err(err).Msg("database not reachable at startup, connecting lazily")
	}

	if app.Redis, err = redisClient.New(ctx, cfg.Redis); err != nil {
		_ = app.Close()
		return nil, err
	}
	if app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL); err != nil {
		_ = app.Close()
		return nil, err
	}
	if app.Signer, err = storage.New(ctx, cfg.Storage); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("init upload signer failed: %w", err)
	}

	if feedCache := app.FeedCache(); app.MQConn != nil && feedCache != nil {
		app.FeedWorker = worker.NewFeedRefreshWorker(
			app.MQConn,
			repository.NewVideoRepository(app.DB),
			feedCache,
			cfg.RabbitMQ.VideoEventsQueue,
		)
		if err := app.FeedWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start feed refresh worker failed: %w", err)
		}
	}

	log.Info().
		Bool("redis", app.Redis != nil).
		Bool("rabbitmq", app.MQConn != nil).
		Str("storage", cfg.Storage.Provider).
		Msg("bootstrap complete")
	return app, nil
}

// FeedCache returns nil when Redis is disabled.
func (a *App) FeedCache() *cache.FeedCache {
	if a.Redis == nil {
		return nil
	}
	return cache.NewFeedCache(
		a.Redis,
		time.Duration(a.Config.Redis.FeedTTLSeconds)*time.Second,
		time.Duration(a.Config.Redis.FeedDirtyTTLSeconds)*time.Second,
	)
}

// SessionDenylist returns nil when Redis is disabled.
func (a *App) SessionDenylist() *cache.SessionDenylist {
	if a.Redis == nil {
		return nil
	}
	return cache.NewSessionDenylist(a.Redis)
}

// VideoEventPublisher returns nil when RabbitMQ is disabled.
func (a *App) VideoEventPublisher() *rabbitmqClient.VideoEventPublisher {
	if a.MQConn == nil {
		return nil
	}
	return rabbitmqClient.NewVideoEventPublisher(a.MQConn, a.Config.RabbitMQ.VideoEventsQueue)
}

func (a *App) Close() error {
	var closeErr error
	if a.FeedWorker != nil {
		a.FeedWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}

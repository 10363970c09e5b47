package mysql

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var ErrConnectorClosed = errors.New("database connector closed")

type DialFunc func(ctx context.Context) (*gorm.DB, error)

// Connector lazily establishes one pooled *gorm.DB and hands the same handle
// to every caller afterwards. Concurrent callers during the first connect
// share a single dial. A failed dial is not remembered, so the next call
// dials again.
type Connector struct {
	dial  DialFunc
	group singleflight.Group

	mu     sync.RWMutex
	db     *gorm.DB
	closed bool
}

func NewConnector(dial DialFunc) *Connector {
	return &Connector{dial: dial}
}

func (c *Connector) DB(ctx context.Context) (*gorm.DB, error) {
	if db, err := c.cached(); db != nil || err != nil {
		return db, err
	}

	// The dial runs detached from the first caller's cancellation so that a
	// cancelled request does not fail every waiter sharing the attempt.
	ch := c.group.DoChan("connect", func() (interface{}, error) {
		if db, err := c.cached(); db != nil || err != nil {
			return db, err
		}

		db, err := c.dial(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			closeDB(db)
			return nil, ErrConnectorClosed
		}
		c.db = db
		log.Info().Msg("database connected")
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("connect database failed: %w", res.Err)
		}
		return res.Val.(*gorm.DB), nil
	}
}

// Connected reports whether a handle has been established.
func (c *Connector) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db != nil
}

func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.db == nil {
		return nil
	}
	db := c.db
	c.db = nil
	return closeDB(db)
}

func (c *Connector) cached() (*gorm.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrConnectorClosed
	}
	return c.db, nil
}

func closeDB(db *gorm.DB) error {
	if db == nil || db.Config == nil || db.ConnPool == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

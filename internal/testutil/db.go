// Package testutil builds throwaway dependencies for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidshare/internal/platform/mysql"
)

// NewConnector returns a connector over a private in-memory SQLite database
// with the application schema migrated.
func NewConnector(t testing.TB) *mysql.Connector {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn := mysql.NewConnector(func(ctx context.Context) (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, err
		}
		if err := mysql.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	})

	if _, err := conn.DB(context.Background()); err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// DBProvider hands out the shared database handle, connecting on first use.
// *mysql.Connector satisfies it.
type DBProvider interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

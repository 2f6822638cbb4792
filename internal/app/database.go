package app

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stationeryhq/stationery-server/config"
)

// getDatabase opens the configured database. TranslateError is enabled so
// unique-constraint violations surface uniformly as gorm.ErrDuplicatedKey
// on both profiles.
func getDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gc := &gorm.Config{TranslateError: true}

	switch cfg.Type {
	case "", "postgres":
		return gorm.Open(postgres.Open(cfg.Dsn), gc)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.Dsn), gc)
	default:
		return nil, errors.Errorf("unsupported database type: %s", cfg.Type)
	}
}

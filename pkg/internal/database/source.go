package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Config struct {
	Driver string
	Dsn    string
	Prefix string
	Debug  bool
}

func NewGorm(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.Dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// Topics can be imported straight into the table, orphans are swept by the cleanup task.
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: cfg.Prefix,
		},
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  lo.Ternary(cfg.Debug, logger.Info, logger.Warn),
		}),
	})
	if err != nil {
		return nil, err
	}

	// SQLite in memory lives as long as its only connection.
	if cfg.Driver == "sqlite" {
		if raw, err := db.DB(); err == nil {
			raw.SetMaxOpenConns(1)
		}
	}

	return db, nil
}

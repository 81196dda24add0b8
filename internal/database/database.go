// Package database opens the gorm connection and migrates the schema.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-kanoon/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	Debug       bool

	Attempts uint
	Delay    time.Duration
}

func (o Options) dialector() (gorm.Dialector, error) {
	switch o.Driver {
	case "", DriverSQLite:
		if o.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
		return sqlite.Open(o.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case DriverPostgres:
		if o.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(o.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", o.Driver)
	}
}

// Open connects, retrying while the server comes up, and runs AutoMigrate.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialector, err := opts.dialector()
	if err != nil {
		return nil, err
	}
	if opts.Attempts == 0 {
		opts.Attempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	var db *gorm.DB
	err = retry.Do(
		func() error {
			conn, err := gorm.Open(dialector, &gorm.Config{
				Logger:         logger.Default.LogMode(level),
				TranslateError: true,
			})
			if err != nil {
				return err
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				_ = sqlDB.Close()
				return err
			}
			db = conn
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[Database] Connect attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Driver, err)
	}

	if opts.Driver == "" || opts.Driver == DriverSQLite {
		// SQLite allows one writer at a time.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	} else if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Package db opens the configured database and keeps its schema current.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/nexusmanager/internal/config"
	"github.com/diewo77/nexusmanager/internal/logging"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

var (
	passwordRegex    = regexp.MustCompile(`(password=)(\S+)`)
	urlPasswordRegex = regexp.MustCompile(`(://[^:/@]+:)[^@]+(@)`)
)

// Open connects to the configured database. SQLite files get their directory
// created and foreign keys enabled; PostgreSQL is retried while it starts.
func Open(cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logging.NewGormLogger(logger, cfg.Debug),
		TranslateError: true,
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		db, err := gorm.Open(sqlite.Open(SQLiteDSN(cfg.Path)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		logger.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("database opened")
		return db, nil

	case config.DriverPostgres:
		dsn := NormalizeDSN(cfg.DSN())
		var db *gorm.DB
		var err error
		for i := 0; i < connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(dsn), gcfg)
			if err == nil {
				break
			}
			logger.Warn().Err(err).Int("attempt", i+1).Msg("database not ready, retrying")
			time.Sleep(connectBackoff)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
		if err := db.Exec("SELECT 1").Error; err != nil {
			return nil, fmt.Errorf("db ping failed: %w", err)
		}
		logger.Info().Str("driver", cfg.Driver).Str("dsn", MaskDSN(dsn)).Msg("database opened")
		return db, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns a file path into a DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

// MaskDSN hides the password of a key=value or URL DSN.
func MaskDSN(dsn string) string {
	masked := passwordRegex.ReplaceAllString(dsn, `${1}***`)
	return urlPasswordRegex.ReplaceAllString(masked, `${1}***${2}`)
}

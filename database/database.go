// database/database.go
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"habit-pact/config"
	"habit-pact/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the backend selected by STORAGE_BACKEND.
func Open(cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.StorageBackend {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Infof("🗄️ Connected to postgres")
		return db, nil
	case "sqlite":
		if cfg.SQLitePath == MemoryPath {
			log.Warnf("⚠️ Using in-memory sqlite; data is lost on exit")
			return OpenInMemory()
		}
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to ensure sqlite dir: %w", err)
			}
		}
		db, err := OpenSQLite(cfg.SQLitePath+"?_pragma=busy_timeout(5000)", gormCfg)
		if err != nil {
			return nil, err
		}
		log.Infof("🗄️ Opened sqlite database at %s", cfg.SQLitePath)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// OpenSQLite opens a sqlite database. SQLite allows a single writer, so the
// pool is pinned to one connection and concurrent callers queue on it.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// MemoryPath selects a throwaway in-memory database for SQLITE_PATH.
const MemoryPath = ":memory:"

// OpenInMemory opens a private, migrated in-memory database.
func OpenInMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := OpenSQLite(dsn, nil)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the engine owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Participant{},
		&models.Challenge{},
		&models.CompletionRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"

	"dm-go/internal/config"
	"dm-go/internal/market"
)

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (market.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, hostID+".db")
		return NewSQLiteDatabase(dbPath)
	case "memory":
		db, err := OpenConnection(":memory:")
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(Schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create in-memory schema: %w", err)
		}
		return NewSQLiteDatabaseFromDB(db), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

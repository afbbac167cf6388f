package save

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emberfall/client/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the local sqlite database holding durable client state.
type DB struct {
	SQL *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the sqlite file and verifies the connection.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", cfg.Path, err)
	}
	// A local save file wants exactly one writer connection.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping storage: %w", err)
	}
	return &DB{SQL: db, log: log}, nil
}

func (db *DB) Close() error {
	return db.SQL.Close()
}

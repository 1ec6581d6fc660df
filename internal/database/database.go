package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/config"
)

// DB wraps the sql connection pool together with its driver
type DB struct {
	logger *zap.Logger
	db     *sql.DB
	driver string
}

// New opens a database connection and initializes the schema
func New(logger *zap.Logger, cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(25)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{
		logger: logger,
		db:     db,
		driver: cfg.Driver,
	}

	if err := d.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Database connected",
		zap.String("driver", cfg.Driver),
	)

	return d, nil
}

// Close closes the underlying connection pool
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies the connection is alive
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the SQL connection pool shared by all repositories
type DB struct {
	*sql.DB
	vectorSearchAvailable bool
}

// New opens a connection pool to PostgreSQL, applies the idempotent schema,
// and enables the pgvector extension required by saved-item similarity search.
func New(databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: sqlDB}

	// The saver requires pgvector; servers without the extension can still
	// run every other module, so this is not fatal.
	if _, err := sqlDB.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err == nil {
		db.vectorSearchAvailable = true
	}

	if _, err := sqlDB.Exec(Schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if db.vectorSearchAvailable {
		if _, err := sqlDB.Exec(SchemaVector); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to apply vector schema: %w", err)
		}
	}

	return db, nil
}

// VectorSearchAvailable reports whether the pgvector extension is installed
func (db *DB) VectorSearchAvailable() bool {
	return db.vectorSearchAvailable
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

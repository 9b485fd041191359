package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient owns the connection to a SQLite database file
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens the database file at path. Connection failures are
// reported as *schema.TransportError.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, connectError("sqlite", fmt.Errorf("open %s: %w", path, err))
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, connectError("sqlite", fmt.Errorf("ping %s: %w", path, err))
	}

	return &SQLiteClient{db: conn}, nil
}

// Source returns a metadata source reading through this client. Closing the
// source closes the client.
func (c *SQLiteClient) Source() *SQLiteSource {
	return NewSQLiteSource(c.db)
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

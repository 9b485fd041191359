package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/kqlgen/internal/schema"
)

// MySQLClient owns the connection to a MySQL server
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient connects with a go-sql-driver DSN such as
// "user:pass@tcp(host:3306)/db". A malformed DSN is a *schema.ConfigError,
// an unreachable server a *schema.TransportError.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, schema.NewConfigError("source.url", fmt.Sprintf("invalid MySQL DSN: %v", err))
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, connectError("mysql", err)
	}

	conn := sql.OpenDB(connector)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, connectError("mysql", fmt.Errorf("ping %s: %w", cfg.Addr, err))
	}

	return &MySQLClient{db: conn}, nil
}

// Source returns a metadata source reading through this client. Closing the
// source closes the client.
func (c *MySQLClient) Source() *MySQLSource {
	return NewMySQLSource(c.db)
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database handle
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

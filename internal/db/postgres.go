package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tordrt/kqlgen/internal/schema"
)

// pgQuerier is the part of *pgx.Conn the PostgreSQL source needs
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	TypeMap() *pgtype.Map
}

// PostgresClient owns the connection to a PostgreSQL server
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects with a postgres:// URL or key/value connection
// string. A malformed connection string is a *schema.ConfigError, an
// unreachable server a *schema.TransportError.
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, schema.NewConfigError("source.url", fmt.Sprintf("invalid PostgreSQL connection string: %v", err))
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, connectError("postgres", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, connectError("postgres", fmt.Errorf("ping %s: %w", cfg.Host, err))
	}

	return &PostgresClient{conn: conn}, nil
}

// Source returns a metadata source reading through this client. Closing the
// source closes the client.
func (c *PostgresClient) Source() *PostgresSource {
	return NewPostgresSource(c)
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

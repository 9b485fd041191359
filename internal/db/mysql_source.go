package db

import (
	"context"
	"database/sql"

	"github.com/tordrt/kqlgen/internal/schema"
)

// MySQLSource reads tables from MySQL. The configured database name is the
// MySQL schema.
type MySQLSource struct {
	db *sql.DB
}

// NewMySQLSource creates a new MySQL metadata source
func NewMySQLSource(db *sql.DB) *MySQLSource {
	return &MySQLSource{db: db}
}

// ListTableColumns lists the columns of every base table in the schema
func (s *MySQLSource) ListTableColumns(ctx context.Context, database string) ([]schema.TableColumnRow, error) {
	query := `
		SELECT
			t.table_name,
			COALESCE(c.column_name, ''),
			COALESCE(c.column_type, '')
		FROM information_schema.tables t
		LEFT JOIN information_schema.columns c
			ON c.table_schema = t.table_schema
			AND c.table_name = t.table_name
		WHERE t.table_schema = ? AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name, c.ordinal_position
	`

	return scanTableColumns(ctx, s.db, database, query, database)
}

// ListFunctions returns nothing. MySQL stored functions return scalars and
// cannot be queried as a row source.
func (s *MySQLSource) ListFunctions(_ context.Context, _ string) ([]schema.FunctionRow, error) {
	return nil, nil
}

// ProbeFunctionSchema always fails since ListFunctions never reports one.
func (s *MySQLSource) ProbeFunctionSchema(_ context.Context, _ string, _ []string, database string) ([]schema.Column, error) {
	return nil, unsupported("mysql", database)
}

// Close closes the database
func (s *MySQLSource) Close() error {
	return s.db.Close()
}

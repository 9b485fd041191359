package db

import (
	"context"
	"database/sql"

	"github.com/tordrt/kqlgen/internal/schema"
)

// SQLiteSource reads tables from a SQLite database file. SQLite has a single
// database per file, so the configured database name is only used in errors.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource creates a new SQLite metadata source
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// ListTableColumns lists the columns of every user table
func (s *SQLiteSource) ListTableColumns(ctx context.Context, database string) ([]schema.TableColumnRow, error) {
	query := `
		SELECT
			m.name,
			COALESCE(p.name, ''),
			COALESCE(p.type, '')
		FROM sqlite_master m
		LEFT JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table'
			AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name, p.cid
	`

	return scanTableColumns(ctx, s.db, database, query)
}

// ListFunctions returns nothing, SQLite has no stored functions.
func (s *SQLiteSource) ListFunctions(_ context.Context, _ string) ([]schema.FunctionRow, error) {
	return nil, nil
}

// ProbeFunctionSchema always fails since ListFunctions never reports one.
func (s *SQLiteSource) ProbeFunctionSchema(_ context.Context, _ string, _ []string, database string) ([]schema.Column, error) {
	return nil, unsupported("sqlite", database)
}

// Close closes the database
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// scanTableColumns runs a (table, column, type) query and maps the SQL types.
func scanTableColumns(ctx context.Context, db *sql.DB, database, query string, args ...any) ([]schema.TableColumnRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, transportError(OpListTables, database, err)
	}
	defer rows.Close()

	var result []schema.TableColumnRow
	for rows.Next() {
		var row schema.TableColumnRow
		var sqlType string
		if err := rows.Scan(&row.Table, &row.Column, &sqlType); err != nil {
			return nil, transportError(OpListTables, database, err)
		}

		if row.Column != "" {
			row.ColumnType = ClrType(sqlType)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, transportError(OpListTables, database, err)
	}

	return result, nil
}

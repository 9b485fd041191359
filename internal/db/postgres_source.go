package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/kqlgen/internal/schema"
)

// PostgresSource reads tables and set-returning functions from PostgreSQL.
// The configured database name selects the PostgreSQL schema (namespace),
// since a connection is bound to a single database.
type PostgresSource struct {
	client *PostgresClient
	conn   pgQuerier
}

// NewPostgresSource creates a new PostgreSQL metadata source
func NewPostgresSource(client *PostgresClient) *PostgresSource {
	return &PostgresSource{
		client: client,
		conn:   client.GetConnection(),
	}
}

// ListTableColumns lists the columns of every base table in the schema
func (s *PostgresSource) ListTableColumns(ctx context.Context, database string) ([]schema.TableColumnRow, error) {
	query := `
		SELECT
			t.table_name,
			COALESCE(c.column_name, ''),
			COALESCE(c.udt_name, '')
		FROM information_schema.tables t
		LEFT JOIN information_schema.columns c
			ON c.table_schema = t.table_schema
			AND c.table_name = t.table_name
		WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY t.table_name, c.ordinal_position
	`

	rows, err := s.conn.Query(ctx, query, database)
	if err != nil {
		return nil, transportError(OpListTables, database, err)
	}
	defer rows.Close()

	var result []schema.TableColumnRow
	for rows.Next() {
		var row schema.TableColumnRow
		var udtName string
		if err := rows.Scan(&row.Table, &row.Column, &udtName); err != nil {
			return nil, transportError(OpListTables, database, err)
		}

		if row.Column != "" {
			row.ColumnType = ClrType(udtName)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, transportError(OpListTables, database, err)
	}

	return result, nil
}

// ListFunctions lists the set-returning functions of the schema
func (s *PostgresSource) ListFunctions(ctx context.Context, database string) ([]schema.FunctionRow, error) {
	query := `
		SELECT
			p.proname,
			pg_get_function_identity_arguments(p.oid)
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE n.nspname = $1
			AND p.prokind = 'f'
			AND p.proretset
		ORDER BY p.proname
	`

	rows, err := s.conn.Query(ctx, query, database)
	if err != nil {
		return nil, transportError(OpListFunctions, database, err)
	}
	defer rows.Close()

	var result []schema.FunctionRow
	for rows.Next() {
		var name, args string
		if err := rows.Scan(&name, &args); err != nil {
			return nil, transportError(OpListFunctions, database, err)
		}

		result = append(result, schema.FunctionRow{
			Name:       name,
			Parameters: formatPostgresArguments(args),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, transportError(OpListFunctions, database, err)
	}

	return result, nil
}

// ProbeFunctionSchema selects at most one row from the function and reads the
// result field types
func (s *PostgresSource) ProbeFunctionSchema(ctx context.Context, function string, args []string, database string) ([]schema.Column, error) {
	query := fmt.Sprintf("SELECT * FROM %s.%s(%s) LIMIT 1",
		pgx.Identifier{database}.Sanitize(),
		pgx.Identifier{function}.Sanitize(),
		strings.Join(args, ", "))

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, transportError(OpProbeFunction, database, fmt.Errorf("%s: %w", function, err))
	}
	defer rows.Close()

	typeMap := s.conn.TypeMap()
	var columns []schema.Column
	for _, fd := range rows.FieldDescriptions() {
		typeName := ""
		if t, ok := typeMap.TypeForOID(fd.DataTypeOID); ok {
			typeName = t.Name
		}

		columns = append(columns, schema.Column{
			Name: fd.Name,
			Type: ClrType(typeName),
		})
	}

	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, transportError(OpProbeFunction, database, fmt.Errorf("%s: %w", function, err))
	}

	return columns, nil
}

// Close closes the connection
func (s *PostgresSource) Close() error {
	return s.client.Close(context.Background())
}

// postgresAliases resolves spellings whose width differs from SQLite's.
var postgresAliases = map[string]string{
	"integer": "int4",
	"real":    "float4",
}

// formatPostgresArguments turns identity arguments such as
// "a integer, VARIADIC b text[]" into "(a:int,b:text[])".
func formatPostgresArguments(identity string) string {
	var items []string
	for i, arg := range strings.Split(identity, ",") {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		fields := strings.Fields(arg)
		switch strings.ToUpper(fields[0]) {
		case "IN", "INOUT", "VARIADIC":
			fields = fields[1:]
		}

		if len(fields) == 0 {
			continue
		}

		name := fmt.Sprintf("arg%d", i+1)
		typ := strings.Join(fields, " ")
		if len(fields) > 1 && !knownSQLType(typ) {
			name = fields[0]
			typ = strings.Join(fields[1:], " ")
		}

		if alias, ok := postgresAliases[normalizeSQLType(typ)]; ok {
			typ = alias
		}

		items = append(items, name+":"+ScalarKind(typ))
	}

	return "(" + strings.Join(items, ",") + ")"
}

// knownSQLType reports whether a possibly multi-word type, or its array form,
// is in the type table.
func knownSQLType(typ string) bool {
	_, ok := sqlTypes[strings.TrimSuffix(normalizeSQLType(typ), "[]")]
	return ok
}

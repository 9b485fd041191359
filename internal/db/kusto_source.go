package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/kqlgen/internal/kusto"
	"github.com/tordrt/kqlgen/internal/schema"
)

// KustoExecutor runs management commands and queries against a cluster.
type KustoExecutor interface {
	Mgmt(ctx context.Context, database, command string) (*kusto.Result, error)
	Query(ctx context.Context, database, query string) (*kusto.Result, error)
}

// KustoSource reads tables and functions from a Kusto database
type KustoSource struct {
	executor KustoExecutor
}

// NewKustoSource creates a new Kusto metadata source
func NewKustoSource(executor KustoExecutor) *KustoSource {
	return &KustoSource{executor: executor}
}

// ListTableColumns runs .show schema restricted to the database
func (s *KustoSource) ListTableColumns(ctx context.Context, database string) ([]schema.TableColumnRow, error) {
	command := fmt.Sprintf(".show schema | where DatabaseName == %s | project TableName, ColumnName, ColumnType", quoteKQL(database))

	res, err := s.executor.Mgmt(ctx, database, command)
	if err != nil {
		return nil, transportError(OpListTables, database, err)
	}

	if err := res.Require("TableName", "ColumnName", "ColumnType"); err != nil {
		return nil, transportError(OpListTables, database, err)
	}

	rows := make([]schema.TableColumnRow, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		table := res.String(i, "TableName")
		if table == "" {
			// The database itself is listed with an empty table name.
			continue
		}

		rows = append(rows, schema.TableColumnRow{
			Table:      table,
			Column:     res.String(i, "ColumnName"),
			ColumnType: res.String(i, "ColumnType"),
		})
	}

	return rows, nil
}

// ListFunctions runs .show functions
func (s *KustoSource) ListFunctions(ctx context.Context, database string) ([]schema.FunctionRow, error) {
	res, err := s.executor.Mgmt(ctx, database, ".show functions | project Name, Parameters")
	if err != nil {
		return nil, transportError(OpListFunctions, database, err)
	}

	if err := res.Require("Name", "Parameters"); err != nil {
		return nil, transportError(OpListFunctions, database, err)
	}

	rows := make([]schema.FunctionRow, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		rows = append(rows, schema.FunctionRow{
			Name:       res.String(i, "Name"),
			Parameters: res.String(i, "Parameters"),
		})
	}

	return rows, nil
}

// ProbeFunctionSchema runs the function limited to one row and reads its schema
func (s *KustoSource) ProbeFunctionSchema(ctx context.Context, function string, args []string, database string) ([]schema.Column, error) {
	res, err := s.executor.Query(ctx, database, ProbeQuery(function, args))
	if err != nil {
		return nil, transportError(OpProbeFunction, database, fmt.Errorf("%s: %w", function, err))
	}

	if err := res.Require("ColumnName", "DataType"); err != nil {
		return nil, transportError(OpProbeFunction, database, fmt.Errorf("%s: %w", function, err))
	}

	columns := make([]schema.Column, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		columns = append(columns, schema.Column{
			Name: res.String(i, "ColumnName"),
			Type: res.String(i, "DataType"),
		})
	}

	return columns, nil
}

// Close is a no-op, the HTTP client keeps no session.
func (s *KustoSource) Close() error {
	return nil
}

// ProbeQuery builds the schema probe for a function call.
func ProbeQuery(function string, args []string) string {
	return fmt.Sprintf("%s(%s) | take 1 | getschema | project ColumnName, DataType", function, strings.Join(args, ", "))
}

func quoteKQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

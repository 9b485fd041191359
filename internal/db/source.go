package db

import (
	"context"
	"fmt"

	"github.com/tordrt/kqlgen/internal/schema"
)

// Source provides the metadata the generator reads from a remote system.
//
// Every call may block on network I/O. Failures are reported as
// *schema.TransportError.
type Source interface {
	// ListTableColumns returns one row per table column. A table without
	// columns is reported as a single row with an empty column name.
	ListTableColumns(ctx context.Context, database string) ([]schema.TableColumnRow, error)

	// ListFunctions returns the stored functions with their raw parameter list.
	ListFunctions(ctx context.Context, database string) ([]schema.FunctionRow, error)

	// ProbeFunctionSchema calls function with the given argument literals and
	// returns the shape of its result. At most one row is requested.
	ProbeFunctionSchema(ctx context.Context, function string, args []string, database string) ([]schema.Column, error)

	// Close releases the connection.
	Close() error
}

// Operation names used in transport errors.
const (
	OpConnect       = "connect"
	OpListTables    = "list tables"
	OpListFunctions = "list functions"
	OpProbeFunction = "probe function schema"
)

func transportError(op, database string, err error) error {
	return schema.NewTransportError(op, database, err)
}

// connectError reports an unreachable source. database is the engine name,
// connection strings may carry credentials.
func connectError(engine string, err error) error {
	return transportError(OpConnect, engine, err)
}

func unsupported(engine, database string) error {
	return transportError(OpProbeFunction, database, fmt.Errorf("%s has no table-valued functions to probe", engine))
}

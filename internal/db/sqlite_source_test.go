package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/schema"
)

func TestSQLiteSourceListTableColumns(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectQuery("FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name", "column", "type"}).
			AddRow("users", "id", "INTEGER").
			AddRow("users", "email", "TEXT").
			AddRow("users", "balance", "DECIMAL(10,2)").
			AddRow("empty", "", ""))
	mock.ExpectClose()

	src := NewSQLiteSource(sqlDB)
	rows, err := src.ListTableColumns(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, []schema.TableColumnRow{
		{Table: "users", Column: "id", ColumnType: "Int64"},
		{Table: "users", Column: "email", ColumnType: "System.String"},
		{Table: "users", Column: "balance", ColumnType: "Decimal"},
		{Table: "empty"},
	}, rows)

	require.NoError(t, src.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteSourceQueryError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("FROM sqlite_master").WillReturnError(errors.New("disk I/O error"))

	_, err = NewSQLiteSource(sqlDB).ListTableColumns(context.Background(), "main")
	require.ErrorIs(t, err, schema.ErrTransport)

	var terr *schema.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, OpListTables, terr.Op)
	require.Equal(t, "main", terr.Database)
}

func TestSQLiteSourceFunctions(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	src := NewSQLiteSource(sqlDB)

	fns, err := src.ListFunctions(context.Background(), "main")
	require.NoError(t, err)
	require.Empty(t, fns)

	_, err = src.ProbeFunctionSchema(context.Background(), "f", nil, "main")
	require.ErrorIs(t, err, schema.ErrTransport)
}

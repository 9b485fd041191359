package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/schema"
)

func TestMySQLSourceListTableColumns(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "column_type"}).
			AddRow("orders", "id", "int(11) unsigned").
			AddRow("orders", "placed_at", "datetime").
			AddRow("orders", "status", "enum('new','paid')"))
	mock.ExpectClose()

	src := NewMySQLSource(sqlDB)
	rows, err := src.ListTableColumns(context.Background(), "shop")
	require.NoError(t, err)
	require.Equal(t, []schema.TableColumnRow{
		{Table: "orders", Column: "id", ColumnType: "Int32"},
		{Table: "orders", Column: "placed_at", ColumnType: "DateTime"},
		{Table: "orders", Column: "status", ColumnType: "System.String"},
	}, rows)

	fns, err := src.ListFunctions(context.Background(), "shop")
	require.NoError(t, err)
	require.Empty(t, fns)

	require.NoError(t, src.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSourceScanError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))

	_, err = NewMySQLSource(sqlDB).ListTableColumns(context.Background(), "shop")
	require.ErrorIs(t, err, schema.ErrTransport)
}

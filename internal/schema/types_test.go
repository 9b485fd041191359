package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/schema"
)

func TestGroupTables(t *testing.T) {
	rows := []schema.TableColumnRow{
		{Table: "Events", Column: "Id", ColumnType: "System.Int64"},
		{Table: "Empty", Column: ""},
		{Table: "Users", Column: "Name", ColumnType: "System.String"},
		{Table: "Events", Column: "Name", ColumnType: "System.String"},
		{Table: "Events", Column: "Name", ColumnType: "System.String"},
	}

	got := schema.GroupTables(rows)

	require.Equal(t, []schema.Table{
		{
			Name: "Events",
			Columns: []schema.Column{
				{Name: "Id", Type: "System.Int64"},
				{Name: "Name", Type: "System.String"},
				{Name: "Name", Type: "System.String"},
			},
		},
		{Name: "Empty"},
		{Name: "Users", Columns: []schema.Column{{Name: "Name", Type: "System.String"}}},
	}, got)
}

func TestParseParameters(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []schema.Parameter
		wantErr bool
	}{
		{
			name: "two parameters",
			raw:  "(a:int,b:string)",
			want: []schema.Parameter{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}},
		},
		{
			name: "spaces around items",
			raw:  "(from:datetime, to:datetime)",
			want: []schema.Parameter{{Name: "from", Type: "datetime"}, {Name: "to", Type: "datetime"}},
		},
		{
			name: "empty list",
			raw:  "()",
			want: nil,
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name:    "missing type",
			raw:     "(a)",
			wantErr: true,
		},
		{
			name:    "tabular parameter",
			raw:     "(T:(x:int))",
			wantErr: true,
		},
		{
			name:    "empty name",
			raw:     "(:int)",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := schema.ParseParameters(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, schema.ErrMalformedSignature))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNewFunctionNamesMalformedFunction(t *testing.T) {
	_, err := schema.NewFunction(schema.FunctionRow{Name: "Broken", Parameters: "(a;int)"})
	require.Error(t, err)

	var sigErr *schema.SignatureError
	require.ErrorAs(t, err, &sigErr)
	require.Equal(t, "Broken", sigErr.Function)
	require.Contains(t, err.Error(), "Broken")
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom!")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "config", err: schema.NewConfigError("namespace", "missing"), sentinel: schema.ErrConfiguration},
		{name: "transport", err: schema.NewTransportError("list tables", "db", cause), sentinel: schema.ErrTransport},
		{name: "filesystem", err: schema.NewFilesystemError("write", "/tmp/x", cause), sentinel: schema.ErrFilesystem},
		{name: "signature", err: &schema.SignatureError{Parameters: "(a)"}, sentinel: schema.ErrMalformedSignature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.sentinel)
			require.NotEmpty(t, tc.err.Error())
		})
	}

	require.ErrorIs(t, schema.NewTransportError("probe", "db", cause), cause)
}

func TestDatabaseCount(t *testing.T) {
	db := schema.Database{
		Name: "Telemetry",
		Entities: []schema.Entity{
			{Kind: schema.KindTable, Name: "Events", Kept: true},
			{Kind: schema.KindTable, Name: "Scratch"},
			{Kind: schema.KindFunction, Name: "Recent", Kept: true},
		},
	}

	total, kept := db.Count(schema.KindTable)
	require.Equal(t, 2, total)
	require.Equal(t, 1, kept)

	total, kept = db.Count(schema.KindFunction)
	require.Equal(t, 1, total)
	require.Equal(t, 1, kept)
}

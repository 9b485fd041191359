package typemap_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/typemap"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		remote   string
		nullable bool
		want     string
	}{
		{remote: "string", nullable: false, want: "string"},
		{remote: "string", nullable: true, want: "string?"},
		{remote: "System.String", nullable: false, want: "string"},
		{remote: "System.String", nullable: true, want: "string?"},
		{remote: "int", nullable: false, want: "int?"},
		{remote: "long", nullable: false, want: "long?"},
		{remote: "System.Int64", nullable: false, want: "Int64?"},
		{remote: "System.DateTime", nullable: true, want: "DateTime?"},
		{remote: "System.Object", nullable: false, want: "object?"},
		{remote: "System.SByte", nullable: false, want: "sbyte?"},
		{remote: "", nullable: false, want: "object?"},
	}

	for _, tc := range tests {
		t.Run(tc.remote, func(t *testing.T) {
			got := typemap.MapType(tc.remote, tc.nullable)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.want, typemap.CSharp{}.MapType(tc.remote, tc.nullable))
		})
	}
}

func TestMapTypeOnlyStringIsUnsuffixed(t *testing.T) {
	for _, remote := range []string{"int", "long", "bool", "System.Guid", "real", "frobnicate", "System.String"} {
		got := typemap.MapType(remote, false)
		if got == "string" {
			continue
		}

		require.True(t, strings.HasSuffix(got, "?"), "%s mapped to %s", remote, got)
		require.NotEqual(t, "?", got)
	}
}

func TestMapScalarType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "bool", want: "bool?"},
		{name: "boolean", want: "bool?"},
		{name: "datetime", want: "DateTime?"},
		{name: "date", want: "DateTime?"},
		{name: "decimal", want: "decimal?"},
		{name: "guid", want: "Guid?"},
		{name: "uuid", want: "Guid?"},
		{name: "uniqueid", want: "Guid?"},
		{name: "int", want: "int?"},
		{name: "long", want: "long?"},
		{name: "real", want: "double?"},
		{name: "double", want: "double?"},
		{name: "string", want: "string"},
		{name: "timespan", want: "TimeSpan?"},
		{name: "time", want: "TimeSpan?"},
		{name: "dynamic", want: "object?"},
		{name: "frobnicate", want: "object?"},
		{name: "", want: "object?"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, typemap.MapScalarType(tc.name, false))
		})
	}

	require.Equal(t, "string?", typemap.MapScalarType("string", true))
}

func TestParseKind(t *testing.T) {
	require.Equal(t, typemap.Long, typemap.ParseKind("LONG"))
	require.Equal(t, typemap.Unknown, typemap.ParseKind("frobnicate"))
	require.Equal(t, "timespan", typemap.ParseKind("time").String())
	require.Equal(t, "unknown", typemap.Kind(99).String())
}

func TestKQLDefaultLiteral(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	literals := typemap.KQL{Now: clock}

	tests := []struct {
		name string
		want string
	}{
		{name: "bool", want: "false"},
		{name: "boolean", want: "false"},
		{name: "datetime", want: "datetime(2024-05-01T12:30:00.0000000Z)"},
		{name: "decimal", want: "-1"},
		{name: "int", want: "-1"},
		{name: "long", want: "-1"},
		{name: "real", want: "-1"},
		{name: "double", want: "-1"},
		{name: "guid", want: "guid(00000000-0000-0000-0000-000000000000)"},
		{name: "string", want: "''"},
		{name: "timespan", want: "timespan(00:00:01)"},
		{name: "dynamic", want: "dynamic({})"},
		{name: "frobnicate", want: "null"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, literals.DefaultLiteral(tc.name))
		})
	}
}

func TestSQLDefaultLiteral(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	literals := typemap.SQL{Now: clock}

	tests := []struct {
		name string
		want string
	}{
		{"bool", "'false'"},
		{"int", "'-1'"},
		{"long", "'-1'"},
		{"decimal", "'-1'"},
		{"string", "''"},
		{"datetime", "'2024-05-01T12:30:00Z'"},
		{"guid", "'00000000-0000-0000-0000-000000000000'"},
		{"timespan", "'00:00:01'"},
		{"dynamic", "'{}'"},
		{"frobnicate", "NULL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := literals.DefaultLiteral(tc.name)
			require.Equal(t, tc.want, got)
			require.NotContains(t, got, "::", "literals must stay untyped")
		})
	}
}

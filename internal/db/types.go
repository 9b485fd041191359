package db

import (
	"strings"
)

// sqlTypes maps SQL type names, as reported by PostgreSQL, MySQL and SQLite, to
// the CLR type name and the scalar kind used for function parameters.
var sqlTypes = map[string]struct {
	clr    string
	scalar string
}{
	"bool":    {"Boolean", "bool"},
	"boolean": {"Boolean", "bool"},
	"bit":     {"Boolean", "bool"},
	"tinyint": {"SByte", "int"},

	"int2":      {"Int16", "int"},
	"smallint":  {"Int16", "int"},
	"int":       {"Int32", "int"},
	"int4":      {"Int32", "int"},
	"integer":   {"Int64", "long"},
	"mediumint": {"Int32", "int"},
	"serial":    {"Int32", "int"},
	"int8":      {"Int64", "long"},
	"bigint":    {"Int64", "long"},
	"bigserial": {"Int64", "long"},

	"float4":           {"Single", "real"},
	"real":             {"Single", "real"},
	"float":            {"Single", "real"},
	"float8":           {"Double", "double"},
	"double":           {"Double", "double"},
	"double precision": {"Double", "double"},
	"numeric":          {"Decimal", "decimal"},
	"decimal":          {"Decimal", "decimal"},
	"money":            {"Decimal", "decimal"},

	"text":              {"System.String", "string"},
	"varchar":           {"System.String", "string"},
	"character varying": {"System.String", "string"},
	"char":              {"System.String", "string"},
	"character":         {"System.String", "string"},
	"bpchar":            {"System.String", "string"},
	"name":              {"System.String", "string"},
	"citext":            {"System.String", "string"},
	"tinytext":          {"System.String", "string"},
	"mediumtext":        {"System.String", "string"},
	"longtext":          {"System.String", "string"},
	"enum":              {"System.String", "string"},
	"clob":              {"System.String", "string"},

	"date":                        {"DateTime", "datetime"},
	"datetime":                    {"DateTime", "datetime"},
	"timestamp":                   {"DateTime", "datetime"},
	"timestamptz":                 {"DateTime", "datetime"},
	"timestamp without time zone": {"DateTime", "datetime"},
	"timestamp with time zone":    {"DateTime", "datetime"},

	"interval":               {"TimeSpan", "timespan"},
	"time":                   {"TimeSpan", "timespan"},
	"timetz":                 {"TimeSpan", "timespan"},
	"time without time zone": {"TimeSpan", "timespan"},
	"time with time zone":    {"TimeSpan", "timespan"},

	"uuid":             {"Guid", "guid"},
	"uniqueidentifier": {"Guid", "guid"},

	"json":  {"System.Object", "dynamic"},
	"jsonb": {"System.Object", "dynamic"},
}

// normalizeSQLType lower-cases a type name and drops size modifiers such as
// "(255)" and the "unsigned" attribute.
func normalizeSQLType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i]) + rest
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), " unsigned")

	return strings.TrimSpace(t)
}

// ClrType returns the CLR type name for a SQL column type. SQLite's integer
// affinity is 64 bits wide, hence integer maps to Int64. Unknown types map to
// System.Object.
func ClrType(dbType string) string {
	t, ok := sqlTypes[normalizeSQLType(dbType)]
	if !ok {
		return "System.Object"
	}

	return t.clr
}

// ScalarKind returns the scalar type name of a SQL parameter type, or the
// normalized type name when it has none.
func ScalarKind(dbType string) string {
	n := normalizeSQLType(dbType)
	t, ok := sqlTypes[n]
	if !ok {
		return n
	}

	return t.scalar
}

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes the two entity shapes a database exposes
type Kind string

const (
	KindTable    Kind = "table"
	KindFunction Kind = "function"
)

// Column is a single (name, remote type) pair of a table or function result
type Column struct {
	Name string
	Type string
}

// Table represents a database table and its columns in schema order
type Table struct {
	Name    string
	Columns []Column
}

// Parameter is a single function parameter
type Parameter struct {
	Name string
	Type string
}

// Function represents a stored function.
//
// Parameters holds the raw parameter list as reported by the database, Items the
// parsed form. Columns is only populated after the function schema was probed.
type Function struct {
	Name       string
	Parameters string
	Items      []Parameter
	Columns    []Column
}

// TableColumnRow is one raw row of a table column listing
type TableColumnRow struct {
	Table      string
	Column     string
	ColumnType string
}

// FunctionRow is one raw row of a function listing
type FunctionRow struct {
	Name       string
	Parameters string
}

// Artifact carries what the context file needs to know about an emitted model.
type Artifact struct {
	// TypeName is the generated model type.
	TypeName string
	// Query is the remote query text backing the accessor.
	Query string
	// Declaration is the accessor member declaration, the bare type name for
	// tables and a call-shaped declaration for functions.
	Declaration string
}

// Entity is a discovered table or function together with the filter decision
type Entity struct {
	Kind       Kind
	Name       string
	Parameters []Parameter
	Columns    []Column
	Kept       bool
}

// Database lists the entities discovered in one configured database
type Database struct {
	Name     string
	Entities []Entity
}

// Count returns the number of entities of the given kind and how many of them
// pass the filters.
func (d Database) Count(kind Kind) (total, kept int) {
	for _, e := range d.Entities {
		if e.Kind != kind {
			continue
		}
		total++
		if e.Kept {
			kept++
		}
	}
	return total, kept
}

// GroupTables groups raw column rows by table name, keeping the order in which
// tables were first seen. Rows with an empty column name only register the table.
func GroupTables(rows []TableColumnRow) []Table {
	index := make(map[string]int)
	var tables []Table

	for _, row := range rows {
		i, ok := index[row.Table]
		if !ok {
			i = len(tables)
			index[row.Table] = i
			tables = append(tables, Table{Name: row.Table})
		}

		if row.Column == "" {
			continue
		}

		tables[i].Columns = append(tables[i].Columns, Column{Name: row.Column, Type: row.ColumnType})
	}

	return tables
}

// ParseParameters parses a parameter list such as "(a:int, b:string)".
func ParseParameters(raw string) ([]Parameter, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")

	var params []Parameter
	for _, item := range strings.Split(trimmed, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}

		parts := strings.Split(item, ":")
		if len(parts) != 2 {
			return nil, &SignatureError{
				Parameters: raw,
				Message:    fmt.Sprintf("parameter %q is not a name:type pair", strings.TrimSpace(item)),
			}
		}

		name := strings.TrimSpace(parts[0])
		typ := strings.TrimSpace(parts[1])
		if name == "" || typ == "" {
			return nil, &SignatureError{
				Parameters: raw,
				Message:    fmt.Sprintf("parameter %q has an empty name or type", strings.TrimSpace(item)),
			}
		}

		params = append(params, Parameter{Name: name, Type: typ})
	}

	return params, nil
}

// NewFunction builds a Function from a raw listing row, parsing its parameters.
func NewFunction(row FunctionRow) (Function, error) {
	items, err := ParseParameters(row.Parameters)
	if err != nil {
		var sigErr *SignatureError
		if errors.As(err, &sigErr) {
			sigErr.Function = row.Name
		}
		return Function{}, err
	}

	return Function{
		Name:       row.Name,
		Parameters: row.Parameters,
		Items:      items,
	}, nil
}

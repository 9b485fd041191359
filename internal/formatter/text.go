package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/kqlgen/internal/schema"
)

// TextFormatter formats discovered entities as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every database in compact text format
func (f *TextFormatter) Format(dbs []schema.Database) error {
	for i, db := range dbs {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between databases
		}

		if err := f.FormatDatabase(db); err != nil {
			return err
		}
	}
	return nil
}

// FormatDatabase writes a single database (exported for use by the multifile formatter)
func (f *TextFormatter) FormatDatabase(db schema.Database) error {
	tables, keptTables := db.Count(schema.KindTable)
	functions, keptFunctions := db.Count(schema.KindFunction)
	_, err := fmt.Fprintf(f.writer, "DATABASE %s (tables %d/%d, functions %d/%d)\n",
		db.Name, keptTables, tables, keptFunctions, functions)
	if err != nil {
		return err
	}

	for _, e := range db.Entities {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatEntity(e))
		for _, col := range e.Columns {
			_, _ = fmt.Fprintf(f.writer, "    %s: %s\n", col.Name, col.Type)
		}
	}

	return nil
}

func (f *TextFormatter) formatEntity(e schema.Entity) string {
	parts := []string{strings.ToUpper(string(e.Kind)), e.Name}
	if e.Kind == schema.KindFunction {
		parts[1] += formatParameters(e.Parameters)
	}

	if !e.Kept {
		parts = append(parts, "EXCLUDED")
	}

	return strings.Join(parts, " ")
}

// formatParameters renders parameters as "(a:int, b:string)"
func formatParameters(params []schema.Parameter) string {
	items := make([]string, 0, len(params))
	for _, p := range params {
		items = append(items, p.Name+":"+p.Type)
	}
	return "(" + strings.Join(items, ", ") + ")"
}

package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/kqlgen/internal/schema"
)

// MarkdownFormatter formats discovered entities as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes every database in markdown format
func (f *MarkdownFormatter) Format(dbs []schema.Database) error {
	_, _ = fmt.Fprintln(f.writer, "# Discovered Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, db := range dbs {
		if err := f.FormatDatabase(db); err != nil {
			return err
		}
	}
	return nil
}

// FormatDatabase formats a single database (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatDatabase(db schema.Database) error {
	if _, err := fmt.Fprintf(f.writer, "## %s\n\n", db.Name); err != nil {
		return err
	}

	f.formatKind(db, schema.KindTable, "Tables")
	f.formatKind(db, schema.KindFunction, "Functions")

	return nil
}

func (f *MarkdownFormatter) formatKind(db schema.Database, kind schema.Kind, title string) {
	total, kept := db.Count(kind)
	if total == 0 {
		return
	}

	_, _ = fmt.Fprintf(f.writer, "### %s (%d of %d kept)\n\n", title, kept, total)

	for _, e := range db.Entities {
		if e.Kind != kind {
			continue
		}

		name := fmt.Sprintf("**%s**", e.Name)
		if !e.Kept {
			name = fmt.Sprintf("~~%s~~", e.Name)
		}
		if kind == schema.KindFunction {
			name += formatParameters(e.Parameters)
		}

		if e.Kept {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", name)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- %s, excluded\n", name)
		}

		for _, col := range e.Columns {
			_, _ = fmt.Fprintf(f.writer, "  - %s: %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tordrt/kqlgen/internal/schema"
)

// TableFormatter prints one aligned row per discovered entity
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format renders all databases into a single table
func (f *TableFormatter) Format(dbs []schema.Database) error {
	table := tablewriter.NewWriter(f.writer)
	table.Header("Database", "Kind", "Name", "Parameters", "Columns", "Kept")

	for _, db := range dbs {
		for _, e := range db.Entities {
			params := ""
			if e.Kind == schema.KindFunction {
				params = formatParameters(e.Parameters)
			}

			err := table.Append([]string{
				db.Name,
				string(e.Kind),
				e.Name,
				params,
				strconv.Itoa(len(e.Columns)),
				yesNo(e.Kept),
			})
			if err != nil {
				return fmt.Errorf("failed to append row for %s: %w", e.Name, err)
			}
		}
	}

	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/kqlgen/internal/schema"
)

// MultiFileFormatter writes one listing file per database plus an overview
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the listing to multiple files
func (f *MultiFileFormatter) Format(dbs []schema.Database) error {
	if f.OutputFormat != FormatText && f.OutputFormat != FormatMarkdown {
		return fmt.Errorf("invalid multi-file format: %s (must be 'text' or 'markdown')", f.OutputFormat)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return schema.NewFilesystemError("create directory", f.OutputDir, err)
	}

	if err := f.writeOverview(dbs); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, db := range dbs {
		if err := f.writeDatabaseFile(db); err != nil {
			return fmt.Errorf("failed to write listing for %s: %w", db.Name, err)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(dbs []schema.Database) error {
	return f.create("_overview", func(w io.Writer) error {
		sorted := make([]schema.Database, len(dbs))
		copy(sorted, dbs)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})

		if f.OutputFormat == FormatMarkdown {
			_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
			_, _ = fmt.Fprintf(w, "Each database has a corresponding file: `<database>%s`\n\n", f.extension())
			_, _ = fmt.Fprintf(w, "## Databases\n\n")
		} else {
			_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
			_, _ = fmt.Fprintf(w, "Each database has a file: <database>%s\n\n", f.extension())
		}

		for _, db := range sorted {
			tables, keptTables := db.Count(schema.KindTable)
			functions, keptFunctions := db.Count(schema.KindFunction)
			name := db.Name
			if f.OutputFormat == FormatMarkdown {
				name = "- **" + name + "**"
			}
			_, err := fmt.Fprintf(w, "%s (tables: %d/%d, functions: %d/%d)\n",
				name, keptTables, tables, keptFunctions, functions)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// writeDatabaseFile writes a single database to its own file
func (f *MultiFileFormatter) writeDatabaseFile(db schema.Database) error {
	return f.create(db.Name, func(w io.Writer) error {
		if f.OutputFormat == FormatMarkdown {
			return NewMarkdownFormatter(w).FormatDatabase(db)
		}
		return NewTextFormatter(w).FormatDatabase(db)
	})
}

func (f *MultiFileFormatter) create(name string, write func(w io.Writer) error) error {
	filename := filepath.Join(f.OutputDir, name+f.extension())

	file, err := os.Create(filename)
	if err != nil {
		return schema.NewFilesystemError("create file", filename, err)
	}
	defer func() { _ = file.Close() }()

	return write(file)
}

func (f *MultiFileFormatter) extension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}

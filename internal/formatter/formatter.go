// Package formatter renders generated C# sources and the listings printed by
// the inspect command.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/kqlgen/internal/schema"
)

// Listing formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

// Formatter writes a listing of discovered entities
type Formatter interface {
	Format(dbs []schema.Database) error
}

// New returns the listing formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'table')", format)
	}
}

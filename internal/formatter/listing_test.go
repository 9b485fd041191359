package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/schema"
)

func sampleDatabases() []schema.Database {
	return []schema.Database{
		{
			Name: "Telemetry",
			Entities: []schema.Entity{
				{
					Kind: schema.KindTable,
					Name: "Events",
					Columns: []schema.Column{
						{Name: "Id", Type: "System.Int64"},
						{Name: "Name", Type: "System.String"},
					},
					Kept: true,
				},
				{Kind: schema.KindTable, Name: "Scratch"},
				{
					Kind:       schema.KindFunction,
					Name:       "Recent",
					Parameters: []schema.Parameter{{Name: "since", Type: "datetime"}, {Name: "top", Type: "int"}},
					Kept:       true,
				},
			},
		},
		{Name: "Audit"},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(sampleDatabases()))

	want := `DATABASE Telemetry (tables 1/2, functions 1/1)
  TABLE Events
    Id: System.Int64
    Name: System.String
  TABLE Scratch EXCLUDED
  FUNCTION Recent(since:datetime, top:int)

DATABASE Audit (tables 0/0, functions 0/0)
`
	require.Equal(t, want, buf.String())
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(sampleDatabases()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# Discovered Schema\n\n## Telemetry\n\n"))
	require.Contains(t, out, "### Tables (1 of 2 kept)\n\n- **Events**\n  - Id: System.Int64\n")
	require.Contains(t, out, "- ~~Scratch~~, excluded\n")
	require.Contains(t, out, "### Functions (1 of 1 kept)\n\n- **Recent**(since:datetime, top:int)\n")
	require.Contains(t, out, "## Audit\n\n")
	require.NotContains(t, out, "## Audit\n\n###")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(sampleDatabases()))

	out := buf.String()
	for _, want := range []string{"Telemetry", "Events", "Scratch", "Recent", "(since:datetime, top:int)", "yes", "no"} {
		require.Contains(t, out, want)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{format: "", want: &TextFormatter{}},
		{format: FormatText, want: &TextFormatter{}},
		{format: FormatMarkdown, want: &MarkdownFormatter{}},
		{format: FormatTable, want: &TableFormatter{}},
		{format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.want, f)
		})
	}
}

func TestMultiFileFormatter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "listing")

	require.NoError(t, NewMultiFileFormatter(dir, FormatMarkdown).Format(sampleDatabases()))

	overview, err := os.ReadFile(filepath.Join(dir, "_overview.md"))
	require.NoError(t, err)
	require.Contains(t, string(overview), "- **Audit** (tables: 0/0, functions: 0/0)\n- **Telemetry** (tables: 1/2, functions: 1/1)\n")

	telemetry, err := os.ReadFile(filepath.Join(dir, "Telemetry.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(telemetry), "## Telemetry\n\n"))

	require.FileExists(t, filepath.Join(dir, "Audit.md"))
}

func TestMultiFileFormatterText(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewMultiFileFormatter(dir, FormatText).Format(sampleDatabases()))

	telemetry, err := os.ReadFile(filepath.Join(dir, "Telemetry.txt"))
	require.NoError(t, err)
	require.Contains(t, string(telemetry), "TABLE Scratch EXCLUDED")
}

func TestMultiFileFormatterRejectsTable(t *testing.T) {
	err := NewMultiFileFormatter(t.TempDir(), FormatTable).Format(nil)
	require.Error(t, err)
}

package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/kqlgen/internal/schema"
	"github.com/tordrt/kqlgen/internal/typemap"
)

const (
	tab     = "    "
	newLine = "\n"

	generatedHeader = "// <auto-generated> This file has been auto generated by kqlgen. </auto-generated>"
	namingPragma    = "#pragma warning disable IDE1006 // Naming Styles"
	nullableEnable  = "#nullable enable"

	// ContextBaseType is the runtime base class of generated contexts.
	ContextBaseType = "ORMKustoDbContext"
)

// Model is the input of a single model file
type Model struct {
	Name      string
	Namespace string
	Usings    []string
	Columns   []schema.Column
}

// Context is the input of the aggregate context file
type Context struct {
	Name      string
	Namespace string
	Usings    []string
	Artifacts []schema.Artifact
}

// ModelEmitter renders the source of one entity model.
type ModelEmitter interface {
	EmitModel(w io.Writer, m Model) error
	Extension() string
}

// ContextEmitter renders the aggregate context exposing one accessor per
// artifact.
type ContextEmitter interface {
	EmitContext(w io.Writer, c Context) error
}

// CSharp emits C# models and contexts for the LinqToKql runtime.
type CSharp struct {
	Mapper     typemap.Mapper
	Nullable   bool
	FileScoped bool
}

// NewCSharp creates a C# emitter using the default type mapping
func NewCSharp(nullable, fileScoped bool) *CSharp {
	return &CSharp{
		Mapper:     typemap.CSharp{},
		Nullable:   nullable,
		FileScoped: fileScoped,
	}
}

// Extension returns the file extension of emitted models
func (e *CSharp) Extension() string {
	return "cs"
}

// EmitModel writes a partial class with one settable property per column, in
// column order. Duplicate column names are kept.
func (e *CSharp) EmitModel(w io.Writer, m Model) error {
	mapper := e.Mapper
	if mapper == nil {
		mapper = typemap.CSharp{}
	}

	lines := []string{
		fmt.Sprintf("public partial class %s", m.Name),
		"{",
	}
	for _, col := range m.Columns {
		lines = append(lines, fmt.Sprintf("%spublic virtual %s %s { get; set; }", tab, mapper.MapType(col.Type, e.Nullable), col.Name))
	}
	lines = append(lines, "}")

	return e.write(w, lines, m.Usings, m.Namespace)
}

// EmitContext writes the context class. Accessors follow the artifact order and
// are separated by a blank line.
func (e *CSharp) EmitContext(w io.Writer, c Context) error {
	lines := []string{
		fmt.Sprintf("public partial class %s : %s", c.Name, ContextBaseType),
		"{",
		fmt.Sprintf("%spublic %s(IKustoDbContextExecutor executor) : base(executor)", tab, c.Name),
		tab + "{",
		tab + "}",
		"",
	}

	for i, a := range c.Artifacts {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			fmt.Sprintf("%spublic virtual IQueryable<%s> %s", tab, a.TypeName, a.Declaration),
			fmt.Sprintf("%s%s=> CreateQuery<%s>($\"%s\");", tab, tab, a.TypeName, a.Query),
		)
	}
	lines = append(lines, "}")

	return e.write(w, lines, c.Usings, c.Namespace)
}

// write wraps body lines with the generated header, usings and namespace.
func (e *CSharp) write(w io.Writer, body, usings []string, namespace string) error {
	out := []string{generatedHeader, namingPragma}
	if e.Nullable {
		out = append(out, nullableEnable)
	}
	out = append(out, normalizeUsings(usings, namespace)...)
	out = append(out, "")

	if e.FileScoped {
		out = append(out, "namespace "+namespace+";", "")
		out = append(out, body...)
	} else {
		out = append(out, "namespace "+namespace, "{")
		for _, line := range body {
			if line == "" {
				out = append(out, line)
				continue
			}
			out = append(out, tab+line)
		}
		out = append(out, "}")
	}

	_, err := io.WriteString(w, strings.Join(out, newLine))
	return err
}

// normalizeUsings drops empty entries and the target namespace, turns bare
// namespaces into using directives and removes duplicates.
func normalizeUsings(usings []string, namespace string) []string {
	seen := make(map[string]bool, len(usings))
	var result []string
	for _, u := range usings {
		u = strings.TrimSpace(u)
		if u == "" || u == namespace {
			continue
		}
		if !strings.HasPrefix(u, "using") {
			u = "using " + u + ";"
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		result = append(result, u)
	}
	return result
}

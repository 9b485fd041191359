// Package generator drives a generation run: it reads each configured
// database through a db.Source, filters the entities, writes one model per
// entity and finally the aggregate context.
package generator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tordrt/kqlgen/internal/config"
	"github.com/tordrt/kqlgen/internal/db"
	"github.com/tordrt/kqlgen/internal/filter"
	"github.com/tordrt/kqlgen/internal/formatter"
	"github.com/tordrt/kqlgen/internal/progress"
	"github.com/tordrt/kqlgen/internal/schema"
	"github.com/tordrt/kqlgen/internal/typemap"
)

var modelUsings = []string{"System"}

// Generator generates models and a context for every configured database.
//
// A Generator runs strictly sequentially: databases in configured order,
// tables before functions, one entity at a time. The first error aborts the
// run and files written before it are left in place.
type Generator struct {
	config   *config.Config
	source   db.Source
	reporter progress.Reporter
	logger   logrus.FieldLogger
	mapper   typemap.Mapper
	literals typemap.Literals
	models   formatter.ModelEmitter
	context  formatter.ContextEmitter
}

// Option configures a Generator
type Option func(*Generator)

// WithReporter sets the progress reporter
func WithReporter(r progress.Reporter) Option {
	return func(g *Generator) { g.reporter = r }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMapper replaces the C# type mapping
func WithMapper(m typemap.Mapper) Option {
	return func(g *Generator) { g.mapper = m }
}

// WithLiterals replaces the probe argument literals, KQL by default
func WithLiterals(l typemap.Literals) Option {
	return func(g *Generator) { g.literals = l }
}

// WithModelEmitter replaces the model emitter
func WithModelEmitter(e formatter.ModelEmitter) Option {
	return func(g *Generator) { g.models = e }
}

// WithContextEmitter replaces the context emitter
func WithContextEmitter(e formatter.ContextEmitter) Option {
	return func(g *Generator) { g.context = e }
}

// New creates a generator reading from src
func New(cfg *config.Config, src db.Source, opts ...Option) *Generator {
	g := &Generator{
		config:   cfg,
		source:   src,
		reporter: progress.Nop{},
		mapper:   typemap.CSharp{},
		literals: typemap.KQL{},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		g.logger = l
	}

	if g.models == nil || g.context == nil {
		cs := formatter.NewCSharp(cfg.EnableNullable, cfg.FileScopedNamespaces)
		cs.Mapper = g.mapper
		if g.models == nil {
			g.models = cs
		}
		if g.context == nil {
			g.context = cs
		}
	}

	return g
}

// Generate runs the whole generation and returns the artifacts in the order
// their accessors appear in the context.
func (g *Generator) Generate(ctx context.Context) ([]schema.Artifact, error) {
	if err := g.init(); err != nil {
		return nil, err
	}

	if err := g.prepareOutput(ctx); err != nil {
		return nil, err
	}

	var artifacts []schema.Artifact
	for _, database := range g.config.Databases {
		generated, err := g.generateDatabase(ctx, database)
		artifacts = append(artifacts, generated...)
		if err != nil {
			return artifacts, err
		}
	}

	if g.config.ShouldCreateDbContext() {
		if err := g.writeContext(artifacts); err != nil {
			return artifacts, err
		}
	}

	g.logger.WithField("artifacts", len(artifacts)).Info("Generation finished")

	return artifacts, nil
}

func (g *Generator) init() error {
	if err := g.config.ApplyDefaults(); err != nil {
		return err
	}

	return g.config.Validate()
}

func (g *Generator) generateDatabase(ctx context.Context, database config.Database) ([]schema.Artifact, error) {
	log := g.logger.WithField("database", database.Name)
	g.reporter.Report(progress.Event{Type: progress.DatabaseStarted, Database: database.Name})

	tables, err := g.fetchTables(ctx, database)
	if err != nil {
		return nil, err
	}
	log.WithField("tables", len(tables)).Debug("Tables selected")

	var artifacts []schema.Artifact
	g.reporter.Report(progress.Event{Type: progress.EntitiesFound, Database: database.Name, Kind: schema.KindTable, Total: len(tables)})
	for _, table := range tables {
		artifact, err := g.generateTable(database, table)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
	}

	functions, err := g.fetchFunctions(ctx, database)
	if err != nil {
		return artifacts, err
	}
	log.WithField("functions", len(functions)).Debug("Functions selected")

	g.reporter.Report(progress.Event{Type: progress.EntitiesFound, Database: database.Name, Kind: schema.KindFunction, Total: len(functions)})
	for _, row := range functions {
		artifact, err := g.generateFunction(ctx, database, row)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func (g *Generator) fetchTables(ctx context.Context, database config.Database) ([]schema.Table, error) {
	rows, err := g.source.ListTableColumns(ctx, database.Name)
	if err != nil {
		return nil, err
	}

	rules, err := filter.ForDatabase(g.config, database, schema.KindTable)
	if err != nil {
		return nil, err
	}

	return filter.Apply(schema.GroupTables(rows), func(t schema.Table) string { return t.Name }, rules), nil
}

// fetchFunctions filters on the raw rows so that excluded functions with an
// unparsable signature do not abort the run.
func (g *Generator) fetchFunctions(ctx context.Context, database config.Database) ([]schema.FunctionRow, error) {
	rows, err := g.source.ListFunctions(ctx, database.Name)
	if err != nil {
		return nil, err
	}

	rules, err := filter.ForDatabase(g.config, database, schema.KindFunction)
	if err != nil {
		return nil, err
	}

	return filter.Apply(rows, func(r schema.FunctionRow) string { return r.Name }, rules), nil
}

func (g *Generator) generateTable(database config.Database, table schema.Table) (schema.Artifact, error) {
	g.reportEntity(progress.EntityStarted, database, schema.KindTable, table.Name)

	if err := g.writeModel(database, table.Name, table.Columns); err != nil {
		return schema.Artifact{}, err
	}

	g.reportEntity(progress.EntityFinished, database, schema.KindTable, table.Name)

	return schema.Artifact{
		TypeName:    table.Name,
		Query:       table.Name,
		Declaration: table.Name,
	}, nil
}

func (g *Generator) generateFunction(ctx context.Context, database config.Database, row schema.FunctionRow) (schema.Artifact, error) {
	g.reportEntity(progress.EntityStarted, database, schema.KindFunction, row.Name)

	fn, err := schema.NewFunction(row)
	if err != nil {
		return schema.Artifact{}, err
	}

	args := make([]string, 0, len(fn.Items))
	for _, p := range fn.Items {
		args = append(args, g.literals.DefaultLiteral(p.Type))
	}

	fn.Columns, err = g.source.ProbeFunctionSchema(ctx, fn.Name, args, database.Name)
	if err != nil {
		return schema.Artifact{}, err
	}

	if err := g.writeModel(database, fn.Name, fn.Columns); err != nil {
		return schema.Artifact{}, err
	}

	g.reportEntity(progress.EntityFinished, database, schema.KindFunction, fn.Name)

	return g.functionArtifact(fn), nil
}

// functionArtifact builds the accessor of a function: the query interpolates
// each argument with GetKQLValue and the declaration takes typed parameters.
func (g *Generator) functionArtifact(fn schema.Function) schema.Artifact {
	queryArgs := make([]string, 0, len(fn.Items))
	declArgs := make([]string, 0, len(fn.Items))
	for _, p := range fn.Items {
		queryArgs = append(queryArgs, fmt.Sprintf("{%s.GetKQLValue()}", p.Name))
		declArgs = append(declArgs, g.mapper.MapScalarType(p.Type, g.config.EnableNullable)+" "+p.Name)
	}

	return schema.Artifact{
		TypeName:    fn.Name,
		Query:       fmt.Sprintf("%s(%s)", fn.Name, strings.Join(queryArgs, ", ")),
		Declaration: fmt.Sprintf("%s(%s)", fn.Name, strings.Join(declArgs, ", ")),
	}
}

func (g *Generator) reportEntity(t progress.EventType, database config.Database, kind schema.Kind, name string) {
	g.reporter.Report(progress.Event{Type: t, Database: database.Name, Kind: kind, Name: name})
}

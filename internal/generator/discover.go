package generator

import (
	"context"

	"github.com/tordrt/kqlgen/internal/config"
	"github.com/tordrt/kqlgen/internal/filter"
	"github.com/tordrt/kqlgen/internal/schema"
)

// Discover lists every table and function of the configured databases with
// the filter decision, without touching the output folders. Kept functions
// are probed so their columns are listed too.
func (g *Generator) Discover(ctx context.Context) ([]schema.Database, error) {
	if err := g.config.ApplyDefaults(); err != nil {
		return nil, err
	}

	result := make([]schema.Database, 0, len(g.config.Databases))
	for _, database := range g.config.Databases {
		discovered, err := g.discoverDatabase(ctx, database)
		if err != nil {
			return result, err
		}
		result = append(result, discovered)
	}

	return result, nil
}

func (g *Generator) discoverDatabase(ctx context.Context, database config.Database) (schema.Database, error) {
	discovered := schema.Database{Name: database.Name}

	rows, err := g.source.ListTableColumns(ctx, database.Name)
	if err != nil {
		return discovered, err
	}

	tableRules, err := filter.ForDatabase(g.config, database, schema.KindTable)
	if err != nil {
		return discovered, err
	}

	for _, table := range schema.GroupTables(rows) {
		discovered.Entities = append(discovered.Entities, schema.Entity{
			Kind:    schema.KindTable,
			Name:    table.Name,
			Columns: table.Columns,
			Kept:    filter.Keep(table.Name, tableRules),
		})
	}

	functions, err := g.source.ListFunctions(ctx, database.Name)
	if err != nil {
		return discovered, err
	}

	functionRules, err := filter.ForDatabase(g.config, database, schema.KindFunction)
	if err != nil {
		return discovered, err
	}

	for _, row := range functions {
		entity := schema.Entity{
			Kind: schema.KindFunction,
			Name: row.Name,
			Kept: filter.Keep(row.Name, functionRules),
		}

		fn, err := schema.NewFunction(row)
		switch {
		case err != nil && entity.Kept:
			return discovered, err
		case err == nil:
			entity.Parameters = fn.Items
		}

		if entity.Kept {
			args := make([]string, 0, len(fn.Items))
			for _, p := range fn.Items {
				args = append(args, g.literals.DefaultLiteral(p.Type))
			}

			entity.Columns, err = g.source.ProbeFunctionSchema(ctx, fn.Name, args, database.Name)
			if err != nil {
				return discovered, err
			}
		}

		discovered.Entities = append(discovered.Entities, entity)
	}

	return discovered, nil
}

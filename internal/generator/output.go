package generator

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/kqlgen/internal/config"
	"github.com/tordrt/kqlgen/internal/formatter"
	"github.com/tordrt/kqlgen/internal/progress"
	"github.com/tordrt/kqlgen/internal/schema"
)

// prepareOutput creates the output folders and, when cleaning is enabled,
// deletes the context file and every file under the models folder. Deletion
// finishes before it returns, so no write overlaps it.
func (g *Generator) prepareOutput(ctx context.Context) error {
	cfg := g.config

	if err := mkdir(cfg.ModelsFolderPath); err != nil {
		return err
	}

	if cfg.ShouldCreateDbContext() {
		if err := mkdir(cfg.DbContextFolderPath()); err != nil {
			return err
		}
	}

	if !cfg.CleanFolderBeforeCreate {
		return nil
	}

	if cfg.DbContextFilePath != "" {
		if err := os.Remove(cfg.DbContextFilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return schema.NewFilesystemError("remove file", cfg.DbContextFilePath, err)
		}
	}

	return g.cleanFolder(ctx, cfg.ModelsFolderPath)
}

// cleanFolder removes every file below dir, keeping the directories.
func (g *Generator) cleanFolder(ctx context.Context, dir string) error {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return schema.NewFilesystemError("walk directory", dir, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range files {
		path := path
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return schema.NewFilesystemError("remove file", path, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	g.logger.WithField("files", len(files)).WithField("folder", dir).Info("Cleaned output folder")

	return nil
}

// writeModel writes {folder}/{name}.{ext}, creating the folder if needed.
func (g *Generator) writeModel(database config.Database, name string, columns []schema.Column) error {
	folder := g.config.ModelFolder(database)
	if err := mkdir(folder); err != nil {
		return err
	}

	path := filepath.Join(folder, name+"."+g.models.Extension())
	return writeFile(path, func(w io.Writer) error {
		return g.models.EmitModel(w, formatter.Model{
			Name:      name,
			Namespace: g.config.ModelsNamespace,
			Usings:    modelUsings,
			Columns:   columns,
		})
	})
}

// writeContext overwrites the context file with one accessor per artifact.
func (g *Generator) writeContext(artifacts []schema.Artifact) error {
	cfg := g.config
	g.reporter.Report(progress.Event{Type: progress.ContextStarted, Total: len(artifacts)})

	usings := append([]string{cfg.Namespace, cfg.ModelsNamespace}, cfg.RuntimeUsings...)
	err := writeFile(cfg.DbContextFilePath, func(w io.Writer) error {
		return g.context.EmitContext(w, formatter.Context{
			Name:      cfg.DbContextName,
			Namespace: cfg.DbContextNamespace,
			Usings:    usings,
			Artifacts: artifacts,
		})
	})
	if err != nil {
		return err
	}

	g.reporter.Report(progress.Event{Type: progress.ContextFinished})

	return nil
}

func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return schema.NewFilesystemError("create directory", dir, err)
	}
	return nil
}

func writeFile(path string, emit func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return schema.NewFilesystemError("create file", path, err)
	}

	if err := emit(file); err != nil {
		_ = file.Close()
		return schema.NewFilesystemError("write file", path, err)
	}

	if err := file.Close(); err != nil {
		return schema.NewFilesystemError("close file", path, err)
	}

	return nil
}

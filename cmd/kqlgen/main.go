package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tordrt/kqlgen"
	"github.com/tordrt/kqlgen/internal/config"
	"github.com/tordrt/kqlgen/internal/progress"
)

var (
	configPath string
	sourceURL  string
	databases  string
	logLevel   string

	clean        bool
	nullable     bool
	fileScoped   bool
	noContext    bool
	showProgress bool

	format    string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:           "kqlgen",
	Short:         "Generate C# models and a LinqToKql context from a database schema",
	Long:          `kqlgen reads tables and functions from Kusto, PostgreSQL, MySQL or SQLite and writes one C# model per entity plus a context exposing an IQueryable accessor for each of them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate models and the context",
	RunE:  runGenerate,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List discovered entities and the filter decision, without writing models",
	RunE:  runInspect,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "kqlgen.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "source", "", "Source URL, overrides source.url")
	rootCmd.PersistentFlags().StringVar(&databases, "databases", "", "Configured databases to process (comma-separated, optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	generateCmd.Flags().BoolVar(&clean, "clean", false, "Delete previously generated files first")
	generateCmd.Flags().BoolVar(&nullable, "nullable", false, "Emit nullable reference types")
	generateCmd.Flags().BoolVar(&fileScoped, "file-scoped", false, "Use file-scoped namespaces")
	generateCmd.Flags().BoolVar(&noContext, "no-context", false, "Skip the context file")
	generateCmd.Flags().BoolVar(&showProgress, "progress", false, "Draw progress bars instead of logging each entity")

	inspectCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown or table")
	inspectCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Write one file per database to this directory")

	rootCmd.AddCommand(generateCmd, inspectCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	// Flags only override the file when given explicitly
	flags := cmd.Flags()
	if flags.Changed("clean") {
		cfg.CleanFolderBeforeCreate = clean
	}
	if flags.Changed("nullable") {
		cfg.EnableNullable = nullable
	}
	if flags.Changed("file-scoped") {
		cfg.FileScopedNamespaces = fileScoped
	}
	if flags.Changed("no-context") {
		cfg.CreateDbContext = config.Bool(!noContext)
	}

	var reporter progress.Reporter = progress.NewLogReporter(logger)
	if showProgress {
		reporter = progress.NewBarReporter(os.Stderr)
	}

	artifacts, err := kqlgen.Generate(cmd.Context(), cfg, &kqlgen.Options{
		Reporter: reporter,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d models\n", len(artifacts))

	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	dbs, err := kqlgen.Inspect(cmd.Context(), cfg, &kqlgen.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	return kqlgen.WriteListing(dbs, &kqlgen.OutputOptions{
		Writer:    cmd.OutOrStdout(),
		OutputDir: outputDir,
		Format:    format,
	})
}

func loadConfig(logger *logrus.Logger) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if sourceURL != "" {
		cfg.Source.URL = sourceURL
	}

	if err := cfg.Select(parseList(databases)); err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.Debugf("Effective configuration:\n%s", spew.Sdump(redacted(cfg)))
	}

	return cfg, nil
}

// redacted returns a copy of cfg without credentials, for logging
func redacted(cfg *config.Config) config.Config {
	c := *cfg
	if c.Source.ClientSecret != "" {
		c.Source.ClientSecret = "***"
	}
	if c.Source.Token != "" {
		c.Source.Token = "***"
	}
	return c
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	return logger, nil
}

// parseList splits a comma-separated flag value, dropping empty items
func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/kqlgen/internal/schema"
)

// DefaultDbContextName is used when no context type name is configured.
const DefaultDbContextName = "MyORMKustoDbContext"

// DefaultRuntimeUsings are the namespaces of the runtime library the generated
// context builds on.
var DefaultRuntimeUsings = []string{
	"CSharp.OpenSource.LinqToKql.ORMGen",
	"CSharp.OpenSource.LinqToKql.Provider",
	"CSharp.OpenSource.LinqToKql.Extensions",
}

// Environment variables overriding source credentials.
const (
	EnvClientSecret = "KQLGEN_CLIENT_SECRET"
	EnvToken        = "KQLGEN_TOKEN"
)

// Config is the generator configuration for a single run.
type Config struct {
	Namespace          string `yaml:"namespace"`
	ModelsNamespace    string `yaml:"models_namespace"`
	DbContextNamespace string `yaml:"db_context_namespace"`
	DbContextName      string `yaml:"db_context_name"`

	ModelsFolderPath  string `yaml:"models_folder_path"`
	DbContextFilePath string `yaml:"db_context_file_path"`

	EnableNullable          bool  `yaml:"enable_nullable"`
	FileScopedNamespaces    bool  `yaml:"file_scoped_namespaces"`
	CleanFolderBeforeCreate bool  `yaml:"clean_folder_before_create"`
	CreateDbContext         *bool `yaml:"create_db_context"`

	RuntimeUsings []string `yaml:"runtime_usings"`

	Filters   Filters    `yaml:"filters"`
	Databases []Database `yaml:"databases"`
	Source    Source     `yaml:"source"`
}

// Database configures one database to generate models for.
type Database struct {
	Name               string  `yaml:"name"`
	ModelSubFolderName string  `yaml:"model_sub_folder_name"`
	Filters            Filters `yaml:"filters"`
}

// Filters groups filter rules by the entities they apply to.
type Filters struct {
	Tables    []FilterRule `yaml:"tables"`
	Functions []FilterRule `yaml:"functions"`
	Global    []FilterRule `yaml:"global"`
}

// FilterRule is a single include or exclude rule.
type FilterRule struct {
	Pattern string `yaml:"pattern"`
	// Match is one of glob (default), exact, regex or expr.
	Match   string `yaml:"match"`
	Exclude bool   `yaml:"exclude"`
}

// Source holds the connection settings of the metadata provider. For SQL
// engines each configured database name selects a schema of the connected
// database.
type Source struct {
	URL          string `yaml:"url"`
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Token        string `yaml:"token"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(contents)
}

// Parse parses a YAML configuration document.
func Parse(contents []byte) (*Config, error) {
	cfg := new(Config)
	err := yaml.Unmarshal(contents, cfg)
	if err != nil {
		return nil, schema.NewConfigError("", fmt.Sprintf("invalid YAML: %v", err))
	}

	cfg.applyEnvironment()

	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Source.ClientSecret = v
	}

	if v := os.Getenv(EnvToken); v != "" {
		c.Source.Token = v
	}
}

// ShouldCreateDbContext reports whether the aggregate context file is emitted.
func (c *Config) ShouldCreateDbContext() bool {
	return c.CreateDbContext == nil || *c.CreateDbContext
}

// DbContextFolderPath is the directory holding the context file.
func (c *Config) DbContextFolderPath() string {
	return filepath.Dir(c.DbContextFilePath)
}

// ModelFolder returns the folder the models of a database are written to.
func (c *Config) ModelFolder(db Database) string {
	if db.ModelSubFolderName == "" {
		return c.ModelsFolderPath
	}

	return filepath.Join(c.ModelsFolderPath, db.ModelSubFolderName)
}

// ApplyDefaults fills values that can be derived from others.
func (c *Config) ApplyDefaults() error {
	if c.ModelsNamespace == "" {
		if c.Namespace == "" {
			return schema.NewConfigError("models_namespace", "no models namespace and no namespace to derive it from")
		}
		c.ModelsNamespace = c.Namespace
	}

	if c.DbContextNamespace == "" {
		if c.Namespace == "" {
			return schema.NewConfigError("db_context_namespace", "no context namespace and no namespace to derive it from")
		}
		c.DbContextNamespace = c.Namespace
	}

	if c.DbContextName == "" {
		c.DbContextName = DefaultDbContextName
	}

	if c.RuntimeUsings == nil {
		c.RuntimeUsings = append([]string(nil), DefaultRuntimeUsings...)
	}

	return nil
}

// Validate checks the values that have no default.
func (c *Config) Validate() error {
	if c.ModelsFolderPath == "" {
		return schema.NewConfigError("models_folder_path", "value is required")
	}

	if c.ShouldCreateDbContext() && c.DbContextFilePath == "" {
		return schema.NewConfigError("db_context_file_path", "value is required when create_db_context is enabled")
	}

	if len(c.Databases) == 0 {
		return schema.NewConfigError("databases", "at least one database is required")
	}

	for i, db := range c.Databases {
		if db.Name == "" {
			return schema.NewConfigError(fmt.Sprintf("databases[%d].name", i), "value is required")
		}
	}

	return nil
}

// Select restricts the configured databases to the given names, keeping the
// configured order. An empty selection keeps every database.
func (c *Config) Select(names []string) error {
	if len(names) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	selected := make([]Database, 0, len(names))
	for _, db := range c.Databases {
		if wanted[db.Name] {
			selected = append(selected, db)
			delete(wanted, db.Name)
		}
	}

	for name := range wanted {
		return schema.NewConfigError("databases", fmt.Sprintf("database %q is not configured", name))
	}

	c.Databases = selected

	return nil
}

// Bool returns a pointer to b, for optional settings.
func Bool(b bool) *bool {
	return &b
}

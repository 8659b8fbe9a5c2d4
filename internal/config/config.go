// Package config loads pawtrail configuration from YAML or TOML files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/pawtrail/docstore"
	"github.com/jacentio/pawtrail/graph"
	"github.com/jacentio/pawtrail/sqlstore"
)

// Config is the complete pawtrail configuration.
type Config struct {
	DynamoDB DynamoDBConfig `yaml:"dynamodb" toml:"dynamodb"`
	SQL      SQLConfig      `yaml:"sql" toml:"sql"`
	Resolver ResolverConfig `yaml:"resolver" toml:"resolver"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DynamoDBConfig locates the walker table.
type DynamoDBConfig struct {
	Table          string `yaml:"table" toml:"table"`
	Region         string `yaml:"region" toml:"region"`
	Profile        string `yaml:"profile" toml:"profile"`
	Endpoint       string `yaml:"endpoint" toml:"endpoint"` // DynamoDB Local, LocalStack
	PageSize       int32  `yaml:"page_size" toml:"page_size"`
	ConsistentRead bool   `yaml:"consistent_read" toml:"consistent_read"`
}

// SQLConfig locates the animal database.
type SQLConfig struct {
	Driver string `yaml:"driver" toml:"driver"` // postgres or sqlite
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// ResolverConfig tunes field resolution.
type ResolverConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text or json
}

// Default returns a configuration that runs against a local SQLite file and
// the default AWS credential chain.
func Default() *Config {
	doc := docstore.DefaultConfig()
	return &Config{
		DynamoDB: DynamoDBConfig{
			Table:          doc.TableName,
			PageSize:       doc.PageSize,
			ConsistentRead: doc.ConsistentRead,
		},
		SQL: SQLConfig{
			Driver: "sqlite",
			DSN:    "pawtrail.db",
		},
		Resolver: ResolverConfig{
			MaxConcurrency: graph.DefaultConfig().MaxConcurrency,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file on top of Default. Files ending in .toml are
// decoded as TOML; anything else as YAML. Environment variables in the format
// ${VAR_NAME} are expanded before decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or with an
// empty string when it is unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// Validate returns the first invalid setting found.
func (c *Config) Validate() error {
	if c.DynamoDB.Table == "" {
		return fmt.Errorf("dynamodb.table is required")
	}
	if c.DynamoDB.PageSize < 1 || c.DynamoDB.PageSize > 1000 {
		return fmt.Errorf("dynamodb.page_size must be between 1 and 1000, got %d", c.DynamoDB.PageSize)
	}
	if _, err := sqlstore.DialectFor(c.SQL.Driver); err != nil {
		return fmt.Errorf("sql.driver: %w", err)
	}
	if c.SQL.DSN == "" {
		return fmt.Errorf("sql.dsn is required")
	}
	if c.Resolver.MaxConcurrency < 1 {
		return fmt.Errorf("resolver.max_concurrency must be at least 1, got %d", c.Resolver.MaxConcurrency)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Docstore converts the dynamodb section into a docstore.Config.
func (c *Config) Docstore() docstore.Config {
	return docstore.Config{
		TableName:      c.DynamoDB.Table,
		PageSize:       c.DynamoDB.PageSize,
		ConsistentRead: c.DynamoDB.ConsistentRead,
	}
}

// Graph converts the resolver section into a graph.Config.
func (c *Config) Graph() graph.Config {
	return graph.Config{MaxConcurrency: c.Resolver.MaxConcurrency}
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/sqlgraph/internal/orm/schema"
)

// DefaultConfigName is the config file base name searched in the working directory
const DefaultConfigName = "sqlgraph"

// Config represents the sqlgraph configuration
type Config struct {
	Tables []TableConfig `mapstructure:"tables"`
	Joins  []JoinConfig  `mapstructure:"joins"`
	Scopes []ScopeConfig `mapstructure:"scopes"`
	Log    LogConfig     `mapstructure:"log"`
}

// TableConfig declares a table and its columns
type TableConfig struct {
	Name    string   `mapstructure:"name"`
	Columns []string `mapstructure:"columns"`
}

// JoinConfig declares a master-detail join as two equal "table.column" references
type JoinConfig struct {
	Master string `mapstructure:"master"`
	Detail string `mapstructure:"detail"`
}

// ScopeConfig declares a named set of equality filters, each written as
// "table.column=value", that the query command can apply with --scope
type ScopeConfig struct {
	Name  string   `mapstructure:"name"`
	Where []string `mapstructure:"where"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from path, or from sqlgraph.yml/sqlgraph.yaml
// in the working directory when path is empty. A missing default file is not
// an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support: SQLGRAPH_LOG_LEVEL etc.
	v.SetEnvPrefix("SQLGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Tables))
	for i, table := range cfg.Tables {
		if table.Name == "" {
			return fmt.Errorf("tables[%d]: name is required", i)
		}
		if seen[table.Name] {
			return fmt.Errorf("tables[%d]: table %s is declared twice", i, table.Name)
		}
		seen[table.Name] = true
	}

	for i, join := range cfg.Joins {
		if _, _, err := schema.ParseColumnRef(join.Master); err != nil {
			return fmt.Errorf("joins[%d].master: %w", i, err)
		}
		if _, _, err := schema.ParseColumnRef(join.Detail); err != nil {
			return fmt.Errorf("joins[%d].detail: %w", i, err)
		}
	}

	scopes := make(map[string]bool, len(cfg.Scopes))
	for i, scope := range cfg.Scopes {
		if scope.Name == "" {
			return fmt.Errorf("scopes[%d]: name is required", i)
		}
		if scopes[scope.Name] {
			return fmt.Errorf("scopes[%d]: scope %s is declared twice", i, scope.Name)
		}
		scopes[scope.Name] = true
		for j, filter := range scope.Where {
			if _, _, err := ParseFilter(filter); err != nil {
				return fmt.Errorf("scopes[%d].where[%d]: %w", i, j, err)
			}
		}
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}

	return nil
}

// Registry builds a table registry from the declared tables
func (c *Config) Registry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, table := range c.Tables {
		if err := reg.Register(schema.NewTable(table.Name, table.Columns...)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ParseFilter splits a "table.column=value" filter into its column reference
// and value. The value may be empty.
func ParseFilter(filter string) (column, value string, err error) {
	column, value, ok := strings.Cut(filter, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid filter %q: expected table.column=value", filter)
	}
	if _, _, err := schema.ParseColumnRef(column); err != nil {
		return "", "", fmt.Errorf("invalid filter %q: %w", filter, err)
	}
	return column, value, nil
}

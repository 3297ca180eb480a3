package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"prism/internal/domain"
)

// Config is the process configuration. Sources (and their schemas) are fixed
// for the process lifetime; edit the file and restart to change them.
type Config struct {
	Address        string         `mapstructure:"address"`
	LogLevel       string         `mapstructure:"log-level"`
	QueryTimeout   time.Duration  `mapstructure:"query-timeout"`
	ConnectorTTL   time.Duration  `mapstructure:"connector-ttl"`
	HealthInterval string         `mapstructure:"health-interval"`
	Sources        []SourceConfig `mapstructure:"sources"`
}

// SourceConfig declares one named data source and the single relation it
// serves. The password is never written in the file; password-env names an
// environment variable holding it.
type SourceConfig struct {
	Name        string        `mapstructure:"name"`
	Driver      string        `mapstructure:"driver"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	PasswordEnv string        `mapstructure:"password-env"`
	SSLMode     string        `mapstructure:"sslmode"`
	Relation    string        `mapstructure:"relation"`
	Schema      []FieldConfig `mapstructure:"schema"`
}

// FieldConfig declares one queryable column of a source's relation.
type FieldConfig struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// field: default value
var defaults = map[string]any{
	"address":         ":8080",
	"log-level":       "info",
	"query-timeout":   30 * time.Second,
	"connector-ttl":   10 * time.Minute,
	"health-interval": "@every 1m",
}

// Load reads configuration from a YAML file and environment variables.
// Environment variables take precedence over the config file for top-level
// keys (e.g. PRISM_ADDRESS, PRISM_LOG_LEVEL).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix("prism")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on anything the registry could not serve: no sources,
// duplicate source names, unknown drivers, or broken schemas.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name: %q", s.Name)
		}
		seen[s.Name] = true
		if _, err := s.DataSource(); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	}
	return nil
}

// DataSource builds the domain descriptor, validating driver, relation, and
// schema along the way.
func (s *SourceConfig) DataSource() (*domain.DataSource, error) {
	driver, err := domain.ParseDriver(s.Driver)
	if err != nil {
		return nil, err
	}
	if s.Relation == "" {
		return nil, fmt.Errorf("relation is required")
	}
	fields := make([]domain.Field, len(s.Schema))
	for i, f := range s.Schema {
		fields[i] = domain.Field{Name: f.Name, Type: domain.FieldType(f.Type)}
	}
	schema, err := domain.NewSchema(fields)
	if err != nil {
		return nil, err
	}
	return &domain.DataSource{
		Name:     s.Name,
		Driver:   driver,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.Username,
		SSLMode:  s.SSLMode,
		Relation: s.Relation,
		Schema:   schema,
	}, nil
}

// Password resolves the source's password from the environment variable named
// by password-env. Naming a variable that is unset is a configuration error;
// an empty password-env means the source needs no password.
func (s *SourceConfig) Password() (string, error) {
	if s.PasswordEnv == "" {
		return "", nil
	}
	pwd, ok := os.LookupEnv(s.PasswordEnv)
	if !ok {
		return "", fmt.Errorf("source %q: environment variable %s is not set", s.Name, s.PasswordEnv)
	}
	return pwd, nil
}

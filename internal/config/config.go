package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the driftline service.
type Config struct {
	Environment string
	Postgres    PostgresConfig
	Telemetry   TelemetryConfig
	Scanner     ScannerConfig
	DDL         DDLConfig
}

type PostgresConfig struct {
	DSN string
}

type TelemetryConfig struct {
	ServiceName string
}

type ScannerConfig struct {
	Enabled  bool
	Interval time.Duration
	Schemas  []string
}

type DDLConfig struct {
	Dialect          string
	TypeMappingsFile string
}

// fileConfig is the YAML shape of a config file. Durations are strings so
// "30s" parses the same way it does from the environment.
type fileConfig struct {
	Environment string `yaml:"environment"`
	Postgres    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Telemetry struct {
		ServiceName string `yaml:"service_name"`
	} `yaml:"telemetry"`
	Scanner struct {
		Enabled  *bool    `yaml:"enabled"`
		Interval string   `yaml:"interval"`
		Schemas  []string `yaml:"schemas"`
	} `yaml:"scanner"`
	DDL struct {
		Dialect          string `yaml:"dialect"`
		TypeMappingsFile string `yaml:"type_mappings_file"`
	} `yaml:"ddl"`
}

// Load resolves config from defaults, then an optional YAML file, then
// DRIFTLINE_* environment variables. Environment wins over file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Environment: "dev",
		Telemetry:   TelemetryConfig{ServiceName: "driftline"},
		Scanner: ScannerConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
			Schemas:  []string{"public"},
		},
		DDL: DDLConfig{Dialect: "postgres"},
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.Environment != "" {
		cfg.Environment = file.Environment
	}
	if file.Postgres.DSN != "" {
		cfg.Postgres.DSN = file.Postgres.DSN
	}
	if file.Telemetry.ServiceName != "" {
		cfg.Telemetry.ServiceName = file.Telemetry.ServiceName
	}
	if file.Scanner.Enabled != nil {
		cfg.Scanner.Enabled = *file.Scanner.Enabled
	}
	if file.Scanner.Interval != "" {
		interval, err := time.ParseDuration(file.Scanner.Interval)
		if err != nil {
			return fmt.Errorf("parse scanner interval %q: %w", file.Scanner.Interval, err)
		}
		cfg.Scanner.Interval = interval
	}
	if len(file.Scanner.Schemas) > 0 {
		cfg.Scanner.Schemas = file.Scanner.Schemas
	}
	if file.DDL.Dialect != "" {
		cfg.DDL.Dialect = file.DDL.Dialect
	}
	if file.DDL.TypeMappingsFile != "" {
		cfg.DDL.TypeMappingsFile = file.DDL.TypeMappingsFile
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = getenv("DRIFTLINE_ENV", cfg.Environment)
	cfg.Postgres.DSN = getenv("DRIFTLINE_POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Telemetry.ServiceName = getenv("DRIFTLINE_OTEL_SERVICE", cfg.Telemetry.ServiceName)
	cfg.Scanner.Enabled = getenvBool("DRIFTLINE_SCANNER_ENABLED", cfg.Scanner.Enabled)
	cfg.Scanner.Interval = getenvDuration("DRIFTLINE_SCANNER_INTERVAL", cfg.Scanner.Interval)
	if _, ok := os.LookupEnv("DRIFTLINE_SCANNER_SCHEMAS"); ok {
		cfg.Scanner.Schemas = getenvCSV("DRIFTLINE_SCANNER_SCHEMAS", "")
	}
	cfg.DDL.Dialect = getenv("DRIFTLINE_DDL_DIALECT", cfg.DDL.Dialect)
	cfg.DDL.TypeMappingsFile = getenv("DRIFTLINE_DDL_TYPE_MAPPINGS_FILE", cfg.DDL.TypeMappingsFile)
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch value {
		case "1", "true", "TRUE", "yes", "YES":
			return true
		case "0", "false", "FALSE", "no", "NO":
			return false
		default:
			return fallback
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvCSV(key, fallback string) []string {
	value := getenv(key, fallback)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trim := strings.TrimSpace(part)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}

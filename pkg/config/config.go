// Package config loads tswift settings from a YAML file, TSWIFT_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/tswift/pkg/observability"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
)

// Sentinel validation errors.
var (
	ErrInvalidJobs        = errors.New("transpile jobs must not be negative")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be between 0 and 1")
	ErrEmptyMapping       = errors.New("mapping entries need both from and to")
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all tswift settings.
type Config struct {
	Transpile TranspileConfig `mapstructure:"transpile" yaml:"transpile"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing"   yaml:"tracing"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
}

// Mapping is one from → to entry of a lookup table. Tables are lists rather
// than maps because viper folds map keys to lower case.
type Mapping struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to"   yaml:"to"`
}

// TranspileConfig holds translation settings.
type TranspileConfig struct {
	OutDir        string    `mapstructure:"out_dir"        yaml:"out_dir"`
	RuntimeModule string    `mapstructure:"runtime_module" yaml:"runtime_module"`
	BuiltinTypes  []Mapping `mapstructure:"builtin_types"  yaml:"builtin_types"`
	Imports       []Mapping `mapstructure:"imports"        yaml:"imports"`
	Jobs          int       `mapstructure:"jobs"           yaml:"jobs"`
	Validate      bool      `mapstructure:"validate"       yaml:"validate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TracingConfig holds OTLP export settings.
type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"  yaml:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure" yaml:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"  yaml:"sample_ratio"`
}

// MetricsConfig holds Prometheus textfile settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// LoadConfig loads configuration from configPath (or ./.tswift.yaml when
// empty), TSWIFT_* environment variables and defaults. The file is checked
// against the embedded JSON schema before decoding.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".tswift")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("TSWIFT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	if used := viperCfg.ConfigFileUsed(); used != "" && schemaChecked(used) {
		schemaErr := ValidateFile(used)
		if schemaErr != nil {
			return nil, schemaErr
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func schemaChecked(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("transpile.out_dir", "")
	viperCfg.SetDefault("transpile.runtime_module", transpile.DefaultRuntimeModule)
	viperCfg.SetDefault("transpile.builtin_types", []map[string]string{})
	viperCfg.SetDefault("transpile.imports", []map[string]string{})
	viperCfg.SetDefault("transpile.jobs", DefaultJobs)
	viperCfg.SetDefault("transpile.validate", DefaultValidate)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", FormatText)

	viperCfg.SetDefault("tracing.otlp_endpoint", "")
	viperCfg.SetDefault("tracing.otlp_headers", "")
	viperCfg.SetDefault("tracing.otlp_insecure", false)
	viperCfg.SetDefault("tracing.sample_ratio", 0.0)

	viperCfg.SetDefault("metrics.textfile", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Transpile.Jobs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, config.Transpile.Jobs)
	}

	_, levelErr := observability.ParseLevel(config.Logging.Level)
	if levelErr != nil {
		return fmt.Errorf("logging level: %w", levelErr)
	}

	if config.Logging.Format != FormatText && config.Logging.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Tracing.SampleRatio < 0 || config.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Tracing.SampleRatio)
	}

	for _, table := range [][]Mapping{config.Transpile.BuiltinTypes, config.Transpile.Imports} {
		for _, entry := range table {
			if entry.From == "" || entry.To == "" {
				return fmt.Errorf("%w: %+v", ErrEmptyMapping, entry)
			}
		}
	}

	return nil
}

// TranspileOptions overlays the configured tables on the stock ones.
func (c *Config) TranspileOptions() transpile.Options {
	opts := transpile.DefaultOptions()

	for _, entry := range c.Transpile.BuiltinTypes {
		opts.BuiltInTypes[entry.From] = entry.To
	}

	for _, entry := range c.Transpile.Imports {
		opts.ImportMap[entry.From] = entry.To
	}

	if c.Transpile.RuntimeModule != "" {
		opts.RuntimeModule = c.Transpile.RuntimeModule
	}

	opts.OutDir = c.Transpile.OutDir

	return opts
}

// Observability converts the logging and tracing sections. The level has
// already been validated by LoadConfig.
func (c *Config) Observability(version string, mode observability.AppMode) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Mode = mode
	cfg.LogJSON = c.Logging.Format == FormatJSON
	cfg.OTLPEndpoint = c.Tracing.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Tracing.OTLPHeaders)
	cfg.OTLPInsecure = c.Tracing.OTLPInsecure
	cfg.SampleRatio = c.Tracing.SampleRatio

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		cfg.LogLevel = level
	} else {
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg
}

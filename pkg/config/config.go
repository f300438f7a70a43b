// Package config loads the YAML configuration of the embedding agent and
// turns it into engine options.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/sanonone/dimembed/pkg/core/distance"
	"github.com/sanonone/dimembed/pkg/embedding"
)

// Environment variables overriding file values.
const (
	EnvDimensions = "DIMEMBED_DIMENSIONS"
	EnvLogLevel   = "DIMEMBED_LOG_LEVEL"
	EnvSchedule   = "DIMEMBED_SCHEDULE"
	EnvGraphFile  = "DIMEMBED_GRAPH_FILE"
)

// DefaultEdgeType is embedded when no edge type is configured.
const DefaultEdgeType = "SimilarityLink"

// EdgeTypeConfig configures the embedding of one edge type.
type EdgeTypeConfig struct {
	Name string `yaml:"name"`
	// Dimensions overrides the global pivot count when > 0.
	Dimensions int `yaml:"dimensions"`
	// ReembedEvery re-embeds the type every N ticks. 0 embeds once and
	// afterwards only inserts new nodes incrementally.
	ReembedEvery int `yaml:"reembed_every"`
}

// Config is the top-level configuration file.
type Config struct {
	Dimensions    int              `yaml:"dimensions"`
	PivotStrategy string           `yaml:"pivot_strategy"`
	Metric        string           `yaml:"metric"`
	Workers       int              `yaml:"workers"` // 0 = GOMAXPROCS
	Schedule      string           `yaml:"schedule"`
	LogLevel      string           `yaml:"log_level"`
	LogFormat     string           `yaml:"log_format"` // "text" or "json"
	GraphFile     string           `yaml:"graph_file"`
	EdgeTypes     []EdgeTypeConfig `yaml:"edge_types"`
}

// DefaultConfig returns a working configuration embedding similarity links.
func DefaultConfig() Config {
	return Config{
		Dimensions:    embedding.DefaultDimensions,
		PivotStrategy: string(embedding.FarthestFirst),
		Metric:        string(distance.Euclidean),
		Schedule:      "@every 1m",
		LogLevel:      "info",
		LogFormat:     "text",
		EdgeTypes: []EdgeTypeConfig{
			{Name: DefaultEdgeType, ReembedEvery: 10},
		},
	}
}

// Load reads the configuration at path on top of the defaults, then applies
// environment overrides (a .env file in the working directory is honoured)
// and validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		if err := Decode(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode strictly decodes YAML from r into cfg; unknown fields are errors.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("YAML syntax error in config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDimensions); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDimensions, err)
		}
		c.Dimensions = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvSchedule); v != "" {
		c.Schedule = v
	}
	if v := os.Getenv(EnvGraphFile); v != "" {
		c.GraphFile = v
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d", c.Dimensions)
	}
	if _, err := embedding.ParsePivotStrategy(c.PivotStrategy); err != nil {
		return err
	}
	if _, err := distance.GetFunc(distance.DistanceMetric(c.Metric)); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	seen := make(map[string]bool, len(c.EdgeTypes))
	for i, et := range c.EdgeTypes {
		if et.Name == "" {
			return fmt.Errorf("edge_types[%d]: name is required", i)
		}
		if seen[et.Name] {
			return fmt.Errorf("edge_types[%d]: duplicate edge type %q", i, et.Name)
		}
		seen[et.Name] = true
		if et.Dimensions < 0 || et.ReembedEvery < 0 {
			return fmt.Errorf("edge_types[%d]: dimensions and reembed_every must not be negative", i)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Logger builds the logger described by LogLevel and LogFormat.
func (c Config) Logger() *embedding.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	if strings.EqualFold(c.LogFormat, "json") {
		return embedding.NewJSONLogger(lvl)
	}
	return embedding.NewTextLogger(lvl)
}

// EngineOptions translates the configuration into embedding options.
func (c Config) EngineOptions(logger *embedding.Logger) []embedding.Option {
	strategy, _ := embedding.ParsePivotStrategy(c.PivotStrategy)
	opts := []embedding.Option{
		embedding.WithDimensions(c.Dimensions),
		embedding.WithPivotStrategy(strategy),
		embedding.WithMetric(distance.DistanceMetric(c.Metric)),
		embedding.WithLogger(logger),
	}
	if c.Workers > 0 {
		opts = append(opts, embedding.WithWorkers(c.Workers))
	}
	for _, et := range c.EdgeTypes {
		if et.Dimensions > 0 {
			opts = append(opts, embedding.WithTypeDimensions(et.Name, et.Dimensions))
		}
	}
	return opts
}

package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/jmccarv/subsolve/internal/search"
	"github.com/jmccarv/subsolve/internal/solver"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds all subsolve configuration.
type Config struct {
	// Corpus is the training text for the language model.
	Corpus string `yaml:"corpus"`

	Search SearchConfig `yaml:"search"`

	// Seed of the first attempt, 0 for a time based seed
	Seed int64 `yaml:"seed"`

	// Independent attempts per cryptogram
	Attempts int `yaml:"attempts"`

	// Number of ranked decodings shown per cryptogram
	TopN int `yaml:"top_n"`

	// Stop searching after this long, e.g. "30s". Empty means no limit.
	MaxRuntime string `yaml:"max_runtime"`

	// Directory decoded attempts are written to. Empty disables output files.
	OutputDir string `yaml:"output_dir"`

	Logging LoggingConfig `yaml:"log"`
}

// SearchConfig tunes the evolutionary search.
type SearchConfig struct {
	Population int `yaml:"population"`
	Keep       int `yaml:"keep"`
	Children   int `yaml:"children"`
	Iterations int `yaml:"iterations"`
	Workers    int `yaml:"workers"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Corpus: "train.txt",
		Search: SearchConfig{
			Population: search.DefaultPopulation,
			Keep:       search.DefaultKeep,
			Children:   search.DefaultChildren,
			Iterations: search.DefaultIterations,
			Workers:    runtime.NumCPU(),
		},
		Attempts: 3,
		TopN:     3,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path on top of the defaults and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SUBSOLVE_CORPUS"); v != "" {
		c.Corpus = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SUBSOLVE_ATTEMPTS", &c.Attempts},
		{"SUBSOLVE_ITERATIONS", &c.Search.Iterations},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, e.name, v)
		}
		*e.dst = n
	}

	if v := os.Getenv("SUBSOLVE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SUBSOLVE_SEED=%q is not a number", ErrInvalid, v)
		}
		c.Seed = n
	}

	return nil
}

// Validate checks that every tunable is in range.
func (c *Config) Validate() error {
	if c.Corpus == "" {
		return fmt.Errorf("%w: no corpus configured", ErrInvalid)
	}

	checks := []struct {
		name string
		val  int
		min  int
	}{
		{"search.population", c.Search.Population, 1},
		{"search.keep", c.Search.Keep, 1},
		{"search.children", c.Search.Children, 0},
		{"search.iterations", c.Search.Iterations, 0},
		{"search.workers", c.Search.Workers, 1},
		{"attempts", c.Attempts, 1},
		{"top_n", c.TopN, 1},
	}
	for _, x := range checks {
		if x.val < x.min {
			return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalid, x.name, x.min, x.val)
		}
	}

	if _, err := c.GetMaxRuntime(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level)
	}

	return nil
}

// GetMaxRuntime parses MaxRuntime. Zero means no limit.
func (c *Config) GetMaxRuntime() (time.Duration, error) {
	if c.MaxRuntime == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.MaxRuntime)
	if err != nil {
		return 0, fmt.Errorf("%w: max_runtime: %v", ErrInvalid, err)
	}
	return d, nil
}

// SolverConfig returns the settings the solver needs.
func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Search: search.Config{
			Population: c.Search.Population,
			Keep:       c.Search.Keep,
			Children:   c.Search.Children,
			Workers:    c.Search.Workers,
		},
		Iterations: c.Search.Iterations,
		Attempts:   c.Attempts,
		Parallel:   c.Search.Workers,
		Seed:       c.Seed,
	}
}

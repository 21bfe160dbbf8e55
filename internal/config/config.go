// Package config provides configuration management for tabula operations
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for bulk cell operations
type Config struct {
	// Parallel Processing Configuration
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Minimum elements to trigger parallel processing
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Number of worker goroutines (0 = auto-detect)
	ChunkSize         int `json:"chunk_size" yaml:"chunk_size"`                 // Elements per parallel chunk (0 = auto-calculate)
	MaxParallelism    int `json:"max_parallelism" yaml:"max_parallelism"`       // Upper bound on workers

	// Debugging Configuration
	VerboseLogging    bool `json:"verbose_logging" yaml:"verbose_logging"`       // Emit debug logs for bulk operations
	MetricsCollection bool `json:"metrics_collection" yaml:"metrics_collection"` // Record per-operation metrics
}

// Global configuration instance
var (
	globalConfig Config
	globalLogger *slog.Logger
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultParallelThreshold = 10_000
	DefaultMaxParallelism    = 16
	// MinChunkSize keeps auto-sized chunks from becoming too small to pay off.
	MinChunkSize = 1024
)

// Environment variable prefix used by LoadFromEnv
const EnvPrefix = "TABULA_"

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // Auto-detect
		ChunkSize:         0, // Auto-calculate
		MaxParallelism:    DefaultMaxParallelism,
		VerboseLogging:    false,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.ChunkSize < 0 {
		return fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize)
	}

	if c.MaxParallelism <= 0 {
		return fmt.Errorf("MaxParallelism must be positive, got %d", c.MaxParallelism)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.MaxParallelism == 0 {
		c.MaxParallelism = defaults.MaxParallelism
	}

	// Boolean fields are left alone so an explicit false survives.
	return c
}

// Workers returns the effective worker count.
func (c Config) Workers() int {
	n := c.WorkerPoolSize
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if c.MaxParallelism > 0 {
		n = min(n, c.MaxParallelism)
	}
	return max(n, 1)
}

// ShouldParallelize reports whether n elements are worth splitting.
func (c Config) ShouldParallelize(n int) bool {
	return c.ParallelThreshold > 0 && n >= c.ParallelThreshold && c.Workers() > 1
}

// ChunkFor returns the chunk size for n elements: the configured ChunkSize,
// or enough chunks to give each worker about four.
func (c Config) ChunkFor(n int) int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	size := n / (c.Workers() * 4)
	return max(size, MinChunkSize)
}

// Logger returns the logger bulk operations write debug records to. Without
// VerboseLogging it discards everything.
func (c Config) Logger() *slog.Logger {
	if !c.VerboseLogging {
		return slog.New(slog.DiscardHandler)
	}
	configMutex.RLock()
	l := globalLogger
	configMutex.RUnlock()
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetLogger installs the logger returned by Logger when verbose logging is on.
// A nil logger restores the default stderr text handler.
func SetLogger(l *slog.Logger) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalLogger = l
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON parses a JSON configuration. Missing fields take defaults.
func LoadFromJSON(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return c.WithDefaults(), nil
}

// LoadFromYAML parses a YAML configuration. Missing fields take defaults.
func LoadFromYAML(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return c.WithDefaults(), nil
}

// LoadFromFile reads a .json, .yaml or .yml configuration file.
func LoadFromFile(filename string) (Config, error) {
	var load func([]byte) (Config, error)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		load = LoadFromJSON
	case ".yaml", ".yml":
		load = LoadFromYAML
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}
	c, err := load(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// LoadFromEnv loads configuration from TABULA_* environment variables.
// Unparseable values are ignored.
func LoadFromEnv() Config {
	config := NewConfig()

	envInt := func(name string, dst *int) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				*dst = parsed
			}
		}
	}
	envBool := func(name string, dst *bool) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			if parsed, err := strconv.ParseBool(val); err == nil {
				*dst = parsed
			}
		}
	}

	envInt("PARALLEL_THRESHOLD", &config.ParallelThreshold)
	envInt("WORKER_POOL_SIZE", &config.WorkerPoolSize)
	envInt("CHUNK_SIZE", &config.ChunkSize)
	envInt("MAX_PARALLELISM", &config.MaxParallelism)
	envBool("VERBOSE_LOGGING", &config.VerboseLogging)
	envBool("METRICS_COLLECTION", &config.MetricsCollection)

	return config
}

// ConfigValidator validates and provides recommendations for configuration
type ConfigValidator struct {
	cpuCount int
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{cpuCount: runtime.NumCPU()}
}

// Validate validates a configuration and provides recommendations
func (cv *ConfigValidator) Validate(config Config) (Config, []string, error) {
	var warnings []string
	validated := config

	if err := config.Validate(); err != nil {
		return Config{}, warnings, err
	}

	if config.WorkerPoolSize > cv.cpuCount*2 {
		warnings = append(warnings,
			fmt.Sprintf("Worker pool size (%d) exceeds 2x CPU count (%d), may cause contention",
				config.WorkerPoolSize, cv.cpuCount))
	}

	if config.ChunkSize > 0 && config.ChunkSize > config.ParallelThreshold {
		warnings = append(warnings,
			fmt.Sprintf("Chunk size (%d) exceeds parallel threshold (%d), inputs near the threshold run as one chunk",
				config.ChunkSize, config.ParallelThreshold))
	}

	if config.WorkerPoolSize == 0 {
		validated.WorkerPoolSize = min(cv.cpuCount, config.MaxParallelism)
		warnings = append(warnings,
			fmt.Sprintf("Auto-setting worker pool size to %d (CPU count)",
				validated.WorkerPoolSize))
	}

	return validated, warnings, nil
}

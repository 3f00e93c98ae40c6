// Package config loads the app configuration: a YAML file with environment
// overrides, acting as the settings store for the assistant.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lticona/strive/internal/domain"
)

type Config struct {
	// ModelsDir is scanned for .gguf files.
	ModelsDir string `yaml:"models_dir"`
	// Model selects the default descriptor by name; empty means the first
	// available model.
	Model  string `yaml:"model"`
	Engine string `yaml:"engine"` // "rule" is the only engine shipped today

	Storage    StorageConfig    `yaml:"storage"`
	Generation GenerationConfig `yaml:"generation"`
	Memory     MemoryConfig     `yaml:"memory"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`
}

type GenerationConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
	ContextSize int     `yaml:"context_size"`
	Threads     int     `yaml:"threads"`
}

type MemoryConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".strive")
	return &Config{
		ModelsDir: filepath.Join(base, "models"),
		Engine:    "rule",
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(base, "strive.db"),
		},
		Generation: GenerationConfig{
			MaxTokens:   512,
			Temperature: 0.7,
			Timeout:     "60s",
			ContextSize: 2048,
			Threads:     4,
		},
		Memory:  MemoryConfig{MaxTurns: 40},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the config file at path (missing file is fine, defaults apply)
// and then applies STRIVE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if _, err := cfg.GenerationTimeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is where Load looks when the user passes no --config flag.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".strive", "config.yaml")
}

func (c *Config) applyEnv() {
	c.ModelsDir = getEnv("STRIVE_MODELS_DIR", c.ModelsDir)
	c.Model = getEnv("STRIVE_MODEL", c.Model)
	c.Engine = getEnv("STRIVE_ENGINE", c.Engine)
	c.Storage.Backend = getEnv("STRIVE_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Path = getEnv("STRIVE_STORAGE_PATH", c.Storage.Path)
	c.Generation.MaxTokens = getIntEnv("STRIVE_MAX_TOKENS", c.Generation.MaxTokens)
	c.Generation.Temperature = getFloatEnv("STRIVE_TEMPERATURE", c.Generation.Temperature)
	c.Generation.Timeout = getEnv("STRIVE_GEN_TIMEOUT", c.Generation.Timeout)
	c.Generation.ContextSize = getIntEnv("STRIVE_CONTEXT_SIZE", c.Generation.ContextSize)
	c.Generation.Threads = getIntEnv("STRIVE_THREADS", c.Generation.Threads)
	c.Memory.MaxTurns = getIntEnv("STRIVE_MAX_TURNS", c.Memory.MaxTurns)
	c.Logging.Level = getEnv("STRIVE_LOG_LEVEL", c.Logging.Level)
}

// GenerationTimeout parses the generation timeout; empty means none.
func (c *Config) GenerationTimeout() (time.Duration, error) {
	if c.Generation.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Generation.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid generation timeout %q: %w", c.Generation.Timeout, err)
	}
	return d, nil
}

// DefaultDescriptor picks the configured model from the available set, or
// the first available when none is configured.
func (c *Config) DefaultDescriptor(available []domain.ModelDescriptor) (domain.ModelDescriptor, error) {
	if len(available) == 0 {
		return domain.ModelDescriptor{}, fmt.Errorf("no models installed in %s", c.ModelsDir)
	}
	if c.Model == "" {
		return available[0], nil
	}
	for _, d := range available {
		if d.Name == c.Model {
			return d, nil
		}
	}
	return domain.ModelDescriptor{}, fmt.Errorf("configured model %q not found in %s", c.Model, c.ModelsDir)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnv(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lticona/strive/internal/domain"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "rule", cfg.Engine)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 512, cfg.Generation.MaxTokens)
	assert.Equal(t, 40, cfg.Memory.MaxTurns)
	assert.Equal(t, "info", cfg.Logging.Level)

	d, err := cfg.GenerationTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Generation.MaxTokens, cfg.Generation.MaxTokens)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models_dir: /opt/models
model: llama-3.2-1b-q4_k_m
storage:
  backend: memory
generation:
  max_tokens: 128
  timeout: 5s
memory:
  max_turns: 12
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/models", cfg.ModelsDir)
	assert.Equal(t, "llama-3.2-1b-q4_k_m", cfg.Model)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 128, cfg.Generation.MaxTokens)
	assert.Equal(t, 12, cfg.Memory.MaxTurns)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys the file omits keep their defaults.
	assert.Equal(t, "rule", cfg.Engine)

	d, err := cfg.GenerationTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models_dir: /opt/models\n"), 0o644))

	t.Setenv("STRIVE_MODELS_DIR", "/data/models")
	t.Setenv("STRIVE_MAX_TOKENS", "64")
	t.Setenv("STRIVE_TEMPERATURE", "0.2")
	t.Setenv("STRIVE_CONTEXT_SIZE", "4096")
	t.Setenv("STRIVE_THREADS", "8")
	t.Setenv("STRIVE_MAX_TURNS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/models", cfg.ModelsDir)
	assert.Equal(t, 64, cfg.Generation.MaxTokens)
	assert.Equal(t, float32(0.2), cfg.Generation.Temperature)
	assert.Equal(t, 4096, cfg.Generation.ContextSize)
	assert.Equal(t, 8, cfg.Generation.Threads)
	// An unparseable int override falls back to the existing value.
	assert.Equal(t, Default().Memory.MaxTurns, cfg.Memory.MaxTurns)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation:\n  timeout: soon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid generation timeout")
}

func TestDefaultDescriptor(t *testing.T) {
	available := []domain.ModelDescriptor{
		{Name: "alpha-1b-q4_k_m", Path: "/models/alpha.gguf"},
		{Name: "beta-3b-q8_0", Path: "/models/beta.gguf"},
	}

	t.Run("no models installed", func(t *testing.T) {
		cfg := Default()
		_, err := cfg.DefaultDescriptor(nil)
		assert.Error(t, err)
	})

	t.Run("unset picks first", func(t *testing.T) {
		cfg := Default()
		d, err := cfg.DefaultDescriptor(available)
		require.NoError(t, err)
		assert.Equal(t, "alpha-1b-q4_k_m", d.Name)
	})

	t.Run("configured name wins", func(t *testing.T) {
		cfg := Default()
		cfg.Model = "beta-3b-q8_0"
		d, err := cfg.DefaultDescriptor(available)
		require.NoError(t, err)
		assert.Equal(t, "/models/beta.gguf", d.Path)
	})

	t.Run("unknown name errors", func(t *testing.T) {
		cfg := Default()
		cfg.Model = "gamma"
		_, err := cfg.DefaultDescriptor(available)
		assert.Error(t, err)
	})
}

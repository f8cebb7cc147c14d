package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	// No config file present: everything comes from envconfig defaults.
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "database", cfg.Pipeline.DataDir)
	assert.Equal(t, "sources.yml", cfg.Pipeline.ManifestFile)
	assert.Equal(t, 4, cfg.Pipeline.Parallelism)
	assert.Equal(t, 0.5, cfg.Pipeline.HeaderRatio)
	assert.Equal(t, 0.3, cfg.Pipeline.PlaceholderRatio)
	assert.Equal(t, "reports", cfg.Export.OutputDir)
	assert.True(t, cfg.Security.EnableCORS)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
server:
  port: 9090
  read_timeout: 5s
pipeline:
  data_dir: /data/registers
  parallelism: 2
logging:
  level: debug
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/data/registers", cfg.Pipeline.DataDir)
	assert.Equal(t, 2, cfg.Pipeline.Parallelism)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields still take their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 0.5, cfg.Pipeline.HeaderRatio)
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "server:\n  port: 9090\n")
	t.Setenv("SALAMA_SERVER_PORT", "7070")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "server: [not a map")

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "port out of range",
			yaml: "server:\n  port: 70000\n",
			want: "invalid server port",
		},
		{
			name: "negative parallelism",
			yaml: "pipeline:\n  parallelism: -1\n",
			want: "parallelism",
		},
		{
			name: "header ratio too large",
			yaml: "pipeline:\n  header_ratio: 1.5\n",
			want: "header ratio",
		},
		{
			name: "placeholder ratio zero is rejected",
			yaml: "pipeline:\n  placeholder_ratio: -0.1\n",
			want: "placeholder ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yml", tt.yaml)
			_, err := LoadFrom(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig contains ingestion pipeline configuration.
type PipelineConfig struct {
	DataDir          string   `yaml:"data_dir" envconfig:"DATA_DIR"`
	ManifestFile     string   `yaml:"manifest_file" envconfig:"MANIFEST_FILE"`
	Parallelism      int      `yaml:"parallelism" envconfig:"PARALLELISM"`
	Encodings        []string `yaml:"encodings" envconfig:"ENCODINGS"`
	HeaderRatio      float64  `yaml:"header_ratio" envconfig:"HEADER_RATIO"`
	PlaceholderRatio float64  `yaml:"placeholder_ratio" envconfig:"PLACEHOLDER_RATIO"`
}

// ExportConfig contains export output configuration.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// defaultConfig returns the baseline configuration the file and environment
// layers override. Defaults live here rather than in envconfig tags: envconfig
// applies tag defaults whenever the variable is unset, which would clobber
// values the config file already supplied.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			DataDir:          "database",
			ManifestFile:     "sources.yml",
			Parallelism:      4,
			HeaderRatio:      0.5,
			PlaceholderRatio: 0.3,
		},
		Export: ExportConfig{
			OutputDir: "reports",
		},
	}
}

// Load loads configuration from environment variables and, if present, the
// config file. Environment takes precedence over the file.
func Load() (*Config, error) {
	return LoadFrom("config.yml")
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment overrides the file.
	if err := envconfig.Process("SALAMA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pipeline.Parallelism < 1 {
		return fmt.Errorf("pipeline parallelism must be at least 1, got %d", c.Pipeline.Parallelism)
	}
	if c.Pipeline.HeaderRatio <= 0 || c.Pipeline.HeaderRatio >= 1 {
		return fmt.Errorf("header ratio must be in (0, 1), got %g", c.Pipeline.HeaderRatio)
	}
	if c.Pipeline.PlaceholderRatio <= 0 || c.Pipeline.PlaceholderRatio >= 1 {
		return fmt.Errorf("placeholder ratio must be in (0, 1), got %g", c.Pipeline.PlaceholderRatio)
	}
	return nil
}

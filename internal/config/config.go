// Package config loads the service configuration from an optional YAML
// file overlaid with FACTURADOR_-prefixed environment variables. A local
// .env file is honored in development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Staging StagingConfig `mapstructure:"staging"`
	Company CompanyConfig `mapstructure:"company"`
	Render  RenderConfig  `mapstructure:"render"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxUploadBytes caps each multipart spreadsheet upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type StagingConfig struct {
	// Dir is the root under which each run gets its own subdirectory.
	Dir string `mapstructure:"dir"`
	// OutputDir is where finished archives are recorded for the
	// already-billed check.
	OutputDir string `mapstructure:"output_dir"`
	// KeepRuns disables run-directory cleanup for debugging.
	KeepRuns bool `mapstructure:"keep_runs"`
}

type CompanyConfig struct {
	// DirectoryFile overrides the built-in company directory.
	DirectoryFile string `mapstructure:"directory_file"`
}

type RenderConfig struct {
	// Parallelism bounds concurrent per-location PDF rendering.
	Parallelism int `mapstructure:"parallelism"`
}

func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("facturador")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/facturador/")

	v.SetEnvPrefix("FACTURADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(32<<20))
	v.SetDefault("staging.dir", "storage/runs")
	v.SetDefault("staging.output_dir", "storage/informes")
	v.SetDefault("staging.keep_runs", false)
	v.SetDefault("render.parallelism", 4)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if cfg.Staging.Dir == "" || cfg.Staging.OutputDir == "" {
		return fmt.Errorf("staging directories must not be empty")
	}
	if cfg.Render.Parallelism <= 0 {
		return fmt.Errorf("render.parallelism must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string           `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string           `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./storage/bundles.db"`
	HTTPServer  HTTPServerConfig `yaml:"http_server"`
	Matching    MatchingConfig   `yaml:"matching"`
	Extraction  ExtractionConfig `yaml:"extraction"`
	Export      ExportConfig     `yaml:"export"`
}

type HTTPServerConfig struct {
	Address           string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:5000"`
	Timeout           time.Duration `yaml:"timeout" env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	MaxUploadMB       int64         `yaml:"max_upload_mb" env-default:"64"`
	StaticDir         string        `yaml:"static_dir" env:"STATIC_DIR"`
	AllowedExtensions []string      `yaml:"allowed_extensions" env-default:".pdf"`
}

// MatchingConfig holds the defaults applied when a request leaves an option out.
type MatchingConfig struct {
	Threshold     float64 `yaml:"threshold" env-default:"80"`
	AutoJunk      bool    `yaml:"auto_junk" env-default:"false"`
	AccentFolding string  `yaml:"accent_folding" env-default:"unidecode"`
}

type ExtractionConfig struct {
	Workers int `yaml:"workers" env:"EXTRACTION_WORKERS" env-default:"4"`
}

type ExportConfig struct {
	Format        string        `yaml:"format" env-default:"xlsx"`
	BundleTTL     time.Duration `yaml:"bundle_ttl" env-default:"1h"`
	PurgeInterval time.Duration `yaml:"purge_interval" env-default:"10m"`
}

// MustLoad loads the config from configPath, falling back to CONFIG_PATH and
// the local default. It panics when the file is missing or invalid.
func MustLoad(configPath string) *Config {
	if configPath == "" {
		configPath = fetchConfigPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("error loading config file: " + err.Error())
	}

	return cfg
}

// Load reads configPath, or only the environment when configPath is empty.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// fetchConfigPath fetches config path from environment variable or default if it was not set in command line flag.
// Priority: flag > env > default.
func fetchConfigPath() string {
	res := os.Getenv("CONFIG_PATH")
	if res == "" {
		res = "./config/config_local.yaml" // default path
	}

	return res
}

func validateConfig(cfg *Config) error {
	switch cfg.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("unknown env: %q", cfg.Env)
	}

	if cfg.Matching.Threshold < 0 || cfg.Matching.Threshold > 100 {
		return fmt.Errorf("matching.threshold must be within [0,100], got %v", cfg.Matching.Threshold)
	}

	switch cfg.Matching.AccentFolding {
	case "unidecode", "marks":
	default:
		return fmt.Errorf("unknown accent folding: %q", cfg.Matching.AccentFolding)
	}

	switch cfg.Export.Format {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("unknown export format: %q", cfg.Export.Format)
	}

	if cfg.Extraction.Workers < 1 {
		return fmt.Errorf("extraction.workers must be at least 1, got %d", cfg.Extraction.Workers)
	}

	if cfg.HTTPServer.MaxUploadMB < 1 {
		return fmt.Errorf("http_server.max_upload_mb must be at least 1, got %d", cfg.HTTPServer.MaxUploadMB)
	}

	return nil
}

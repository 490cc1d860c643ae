package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	SourceDir      string `envconfig:"SOURCE_DIR" default:"."`
	ErrorLog       string `envconfig:"ERROR_LOG" default:"ERROR.txt"`
	ErrorLogAppend bool   `envconfig:"ERROR_LOG_APPEND" default:"false"`
	VolumeSkip     int    `envconfig:"VOLUME_SKIP" default:"4"`
	PackagesFile   string `envconfig:"PACKAGES_FILE" default:"packages.yaml"`

	Table *Table `ignored:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось прочитать переменные окружения: %w", err)
	}

	if cfg.VolumeSkip < 0 || cfg.VolumeSkip > 26 {
		return nil, fmt.Errorf("%w: VOLUME_SKIP=%d", ErrInvalidConfig, cfg.VolumeSkip)
	}

	table, err := LoadTable(cfg.PackagesFile)
	if err != nil {
		return nil, err
	}
	cfg.Table = table

	return &cfg, nil
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server struct {
		Host              string
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		ReadHeaderTimeout time.Duration
		StrReadTimeout    string `toml:"read_timeout"`
		StrWriteTimeout   string `toml:"write_timeout"`
		StrHeaderTimeout  string `toml:"read_header_timeout"`
	}
	Database struct {
		Host     string
		User     string
		Password string
		Database string
	}
	Redis struct {
		RedisAddr        string `toml:"redis_addr"`
		RedisPassword    string `toml:"redis_password"`
		RedisDB          int    `toml:"redis_db"`
		StatsCacheTTL    time.Duration
		StrStatsCacheTTL string `toml:"stats_cache_ttl"`
	}
}

func GetConfig(logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile("configs/config.toml")
	if err != nil {
		logger.Error("Error read config.toml file", slog.String("error", err.Error()))
		return nil, err
	}

	var cfg *Config

	if _, tomlErr := toml.Decode(string(data), &cfg); tomlErr != nil {
		logger.Error("Error decode config.toml file", slog.String("error", tomlErr.Error()))
		return nil, tomlErr
	}

	cfg.Server.ReadTimeout, err = time.ParseDuration(cfg.Server.StrReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_timeout: %w", err)
	}
	cfg.Server.WriteTimeout, err = time.ParseDuration(cfg.Server.StrWriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid write_timeout: %w", err)
	}
	cfg.Server.ReadHeaderTimeout, err = time.ParseDuration(cfg.Server.StrHeaderTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_header_timeout: %w", err)
	}
	cfg.Redis.StatsCacheTTL, err = time.ParseDuration(cfg.Redis.StrStatsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid stats_cache_ttl: %w", err)
	}

	logger.Info("Config is loaded")
	return cfg, nil
}

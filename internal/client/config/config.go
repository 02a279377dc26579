// Package config содержит конфигурацию клиента каталога.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config содержит конфигурацию клиента.
type Config struct {
	ServerURL      string        `env:"CARMARKET_CLIENT_SERVER_URL" env-default:"http://localhost:8080"`
	RequestTimeout time.Duration `env:"CARMARKET_CLIENT_REQUEST_TIMEOUT" env-default:"10s"`
	CacheFreshness time.Duration `env:"CARMARKET_CLIENT_CACHE_FRESHNESS" env-default:"5m"`
	LogLevel       string        `env:"CARMARKET_CLIENT_LOG_LEVEL" env-default:"info"`
	Environment    string        `env:"CARMARKET_CLIENT_ENV" env-default:"development"`
}

// EventsURL возвращает адрес потока событий каталога.
func (c *Config) EventsURL() string {
	return c.ServerURL + "/cars/events"
}

// Load загружает конфигурацию клиента из переменных окружения.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("error reading client config: %w", err)
	}
	return cfg, nil
}

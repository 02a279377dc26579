package config

import (
	"time"

	"carmarket/pkg/db/redis"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"CARMARKET_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"CARMARKET_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"CARMARKET_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"CARMARKET_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"CARMARKET_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"CARMARKET_REDIS_TIMEOUT" env-default:"5s"`
}

// GetClientConfig преобразует настройки в конфигурацию клиента Redis.
func (r *RedisConfig) GetClientConfig() *redis.Config {
	return &redis.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Timeout:  r.Timeout,
	}
}

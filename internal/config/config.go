// config реализует конфигурацию board-сервиса: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Поддерживаемые драйверы хранилища.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config - корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	DB       DBConfig      `yaml:"db"`
	Limits   LimitsConfig  `yaml:"limits"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig - публичный HTTP API и служебные /livez, /healthz, /metrics.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// GRPCConfig - gRPC-сервер (health).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50055"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// DBConfig - выбор хранилища и строка подключения к нему.
// Для sqlite URL - DSN modernc.org/sqlite (например, "file:board.db").
type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	URL    string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// LimitsConfig - размеры страниц: size=0 -> Default, верхняя граница - Max.
type LimitsConfig struct {
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"20"`
	Max     int `yaml:"max"     env:"MAX_LIMIT"     env-default:"100"`
}

// TimeoutConfig - дедлайн обработки запроса и время на graceful shutdown.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE"  env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN" env-default:"10s"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// Поверх значений из YAML накладываются ENV-переменные.
func Load(path string) (*Config, error) {
	var cfg Config

	file := path
	if file == "" {
		file = os.Getenv("CONFIG_PATH")
	}
	if file == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			file = "local.yaml"
		}
	}

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", file, err)
		}

		if err := cleanenv.ReadConfig(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", file, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("db.driver must be one of %s, %s, %s", DriverPostgres, DriverSQLite, DriverMongo)
	}

	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}

	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Timeouts.Service < 0 {
		return fmt.Errorf("timeouts.service must be >= 0")
	}

	return nil
}

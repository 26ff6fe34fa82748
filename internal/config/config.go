package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockDriverMemory = "memory"
	LockDriverRedis  = "redis"
)

// ErrInvalidConfig конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Storage        StorageConfig        `toml:"storage"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Scheduler      SchedulerConfig      `toml:"scheduler"`
	Locks          LocksConfig          `toml:"locks"`
	PaymentService PaymentServiceConfig `toml:"payment_service"`
	Broker         BrokerConfig         `toml:"broker"`
}

// ServerConfig таймауты указываются в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type StorageConfig struct {
	Driver string `toml:"driver"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type SchedulerConfig struct {
	Enabled               bool `toml:"enabled"`
	IntervalSeconds       int  `toml:"interval_seconds"`
	BookingTimeoutSeconds int  `toml:"booking_timeout_seconds"`
	ReconcileSlots        bool `toml:"reconcile_slots"`
}

func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

func (s SchedulerConfig) BookingTimeout() time.Duration {
	return time.Duration(s.BookingTimeoutSeconds) * time.Second
}

type LocksConfig struct {
	Driver        string `toml:"driver"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

func (l LocksConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

type PaymentServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type BrokerConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// Default значения, которые используются для незаполненных полей файла
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "parking-service",
			Path:        "/metrics",
		},
		Scheduler: SchedulerConfig{
			Enabled:               true,
			IntervalSeconds:       60,
			BookingTimeoutSeconds: 10,
			ReconcileSlots:        true,
		},
		Locks: LocksConfig{
			Driver:     LockDriverMemory,
			RedisAddr:  "localhost:6379",
			TTLSeconds: 30,
		},
		PaymentService: PaymentServiceConfig{Timeout: 5},
		Broker:         BrokerConfig{Exchange: "parking.bookings"},
	}
}

// Load читает TOML файл поверх значений по умолчанию
// Путь можно переопределить переменной окружения CONFIG_PATH
func Load(path string) (*Config, error) {
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность секций
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Locks.Driver {
	case LockDriverMemory:
	case LockDriverRedis:
		if c.Locks.RedisAddr == "" {
			return fmt.Errorf("%w: locks.redis_addr is required for redis locks", ErrInvalidConfig)
		}
		if c.Locks.TTLSeconds <= 0 {
			return fmt.Errorf("%w: locks.ttl_seconds must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown locks.driver %q", ErrInvalidConfig, c.Locks.Driver)
	}

	if c.Scheduler.Enabled && c.Scheduler.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: scheduler.interval_seconds must be positive", ErrInvalidConfig)
	}

	if c.PaymentService.Enabled && c.PaymentService.URL == "" {
		return fmt.Errorf("%w: payment_service.url is required when enabled", ErrInvalidConfig)
	}

	if c.Broker.Enabled && (c.Broker.URL == "" || c.Broker.Exchange == "") {
		return fmt.Errorf("%w: broker.url and broker.exchange are required when enabled", ErrInvalidConfig)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	return nil
}

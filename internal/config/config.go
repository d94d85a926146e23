package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix префикс переменных окружения, например BANQUET_DATABASE_PASSWORD
const EnvPrefix = "BANQUET_"

var (
	// ErrReadConfig возвращается, когда TOML файл не удалось прочитать или разобрать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrEnvOverride возвращается, когда переменную окружения не удалось разобрать
	ErrEnvOverride = errors.New("config: failed to apply environment overrides")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	// DriverMemory хранит записи в памяти процесса, только для локального запуска
	DriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig    `toml:"server" envPrefix:"SERVER_"`
	Storage   StorageConfig   `toml:"storage" envPrefix:"STORAGE_"`
	Database  DatabaseConfig  `toml:"database" envPrefix:"DATABASE_"`
	Mongo     MongoConfig     `toml:"mongo" envPrefix:"MONGO_"`
	Redis     RedisConfig     `toml:"redis" envPrefix:"REDIS_"`
	Logs      LogsConfig      `toml:"logs" envPrefix:"LOGS_"`
	Metrics   MetricsConfig   `toml:"metrics" envPrefix:"METRICS_"`
	Auth      AuthConfig      `toml:"auth" envPrefix:"AUTH_"`
	Conflicts ConflictsConfig `toml:"conflicts" envPrefix:"CONFLICTS_"`
}

type ServerConfig struct {
	HTTPPort        int    `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int    `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    int    `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     int    `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout int    `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	Timezone        string `toml:"timezone" env:"TIMEZONE"`
}

type StorageConfig struct {
	Driver string `toml:"driver" env:"DRIVER"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"HOST"`
	Port            int    `toml:"port" env:"PORT"`
	User            string `toml:"user" env:"USER"`
	Password        string `toml:"password" env:"PASSWORD"`
	DBName          string `toml:"dbname" env:"NAME"`
	SSLMode         string `toml:"sslmode" env:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	MigrateOnStart  bool   `toml:"migrate_on_start" env:"MIGRATE_ON_START"`
}

type MongoConfig struct {
	URI            string `toml:"uri" env:"URI"`
	Database       string `toml:"database" env:"DATABASE"`
	ConnectTimeout int    `toml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	Transactions   bool   `toml:"transactions" env:"TRANSACTIONS"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled" env:"ENABLED"`
	Address  string `toml:"address" env:"ADDRESS"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	LockTTL  int    `toml:"lock_ttl_ms" env:"LOCK_TTL_MS"`
	Prefix   string `toml:"key_prefix" env:"KEY_PREFIX"`
}

type LogsConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	File  string `toml:"file" env:"FILE"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"ENABLED"`
	Path        string `toml:"path" env:"PATH"`
	ServiceName string `toml:"service_name" env:"SERVICE_NAME"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `toml:"issuer" env:"ISSUER"`
}

type ConflictsConfig struct {
	CheckWithinBatch bool `toml:"check_within_batch" env:"CHECK_WITHIN_BATCH"`
}

// Default возвращает значения для ключей, отсутствующих в файле
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			Timezone:        "Asia/Kolkata",
		},
		Storage: StorageConfig{Driver: DriverPostgres},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "banquet",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrateOnStart:  true,
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "banquet",
			ConnectTimeout: 10,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			LockTTL: 5000,
			Prefix:  "banquet:lock",
		},
		Logs:      LogsConfig{Level: "info"},
		Metrics:   MetricsConfig{Enabled: true, Path: "/metrics", ServiceName: "banquet_service"},
		Conflicts: ConflictsConfig{CheckWithinBatch: true},
	}
}

// Load загружает конфигурацию из path поверх значений по умолчанию, читает .env
// (если есть) и применяет переменные BANQUET_*. Отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Server.Timezone, err)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("%w: redis.lock_ttl_ms must be positive", ErrInvalidConfig)
	}
	return nil
}

// DSN возвращает строку подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location возвращает часовой пояс курорта для дат сессий
func (s ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LockTTLDuration возвращает TTL блокировок в Redis
func (r RedisConfig) LockTTLDuration() time.Duration {
	return time.Duration(r.LockTTL) * time.Millisecond
}

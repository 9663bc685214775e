package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, если не удалось прочитать или распарсить файл
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server              ServerConfig        `toml:"server"`
	Database            DatabaseConfig      `toml:"database"`
	Logs                LogsConfig          `toml:"logs"`
	Metrics             MetricsConfig       `toml:"metrics"`
	Redis               RedisConfig         `toml:"redis"`
	ProviderService     ServiceClientConfig `toml:"provider_service"`
	UserService         ServiceClientConfig `toml:"user_service"`
	NotificationService ServiceClientConfig `toml:"notification_service"`
	Booking             BookingConfig       `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// TimeoutDuration таймаут клиента
func (c ServiceClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BookingConfig бизнес-параметры бронирования
type BookingConfig struct {
	Timezone                string `toml:"timezone"`
	LeadTimeHours           int    `toml:"lead_time_hours"`
	CancellationWindowHours int    `toml:"cancellation_window_hours"`
	TourWindowMinutes       int    `toml:"tour_window_minutes"`
	DefaultDaysAhead        int    `toml:"default_days_ahead"`
	DefaultSlotMinutes      int    `toml:"default_slot_minutes"`
	DefaultRecurrenceDays   int    `toml:"default_recurrence_days"`
	MaxOccurrences          int    `toml:"max_occurrences"`
}

func (c BookingConfig) LeadTime() time.Duration {
	return time.Duration(c.LeadTimeHours) * time.Hour
}

func (c BookingConfig) CancellationWindow() time.Duration {
	return time.Duration(c.CancellationWindowHours) * time.Hour
}

func (c BookingConfig) TourWindow() time.Duration {
	return time.Duration(c.TourWindowMinutes) * time.Minute
}

// Location часовой пояс, в котором заданы часы работы провайдеров
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
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
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  60,
		},
		ProviderService:     ServiceClientConfig{Timeout: 5},
		UserService:         ServiceClientConfig{Timeout: 5},
		NotificationService: ServiceClientConfig{Timeout: 5},
		Booking: BookingConfig{
			Timezone:                "UTC",
			LeadTimeHours:           24,
			CancellationWindowHours: 24,
			TourWindowMinutes:       30,
			DefaultDaysAhead:        14,
			DefaultSlotMinutes:      30,
			DefaultRecurrenceDays:   90,
			MaxOccurrences:          104,
		},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.ProviderService.URL == "" {
		return fmt.Errorf("%w: provider_service.url is required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.LeadTimeHours < 0 || c.Booking.CancellationWindowHours < 0 {
		return fmt.Errorf("%w: booking windows must not be negative", ErrInvalidConfig)
	}
	if c.Booking.DefaultSlotMinutes <= 0 || c.Booking.DefaultDaysAhead <= 0 {
		return fmt.Errorf("%w: booking.default_slot_minutes and default_days_ahead must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxOccurrences <= 0 {
		return fmt.Errorf("%w: booking.max_occurrences must be positive", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	return nil
}

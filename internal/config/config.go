// Пакет config — загрузка и валидация конфигурации Pereval API
// из переменных окружения (опционально — из файла .env).
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Pereval API.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int `env:"FSTR_PORT" envDefault:"8000"`
	// Уровень логирования (debug, info, warn, error)
	LogLevelRaw string `env:"FSTR_LOG_LEVEL" envDefault:"info"`
	// Формат логов (json, text)
	LogFormat string `env:"FSTR_LOG_FORMAT" envDefault:"json"`

	// LogLevel — разобранный LogLevelRaw (заполняется в validate)
	LogLevel slog.Level

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration `env:"FSTR_HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout time.Duration `env:"FSTR_HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout  time.Duration `env:"FSTR_HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string `env:"FSTR_DB_HOST" envDefault:"localhost"`
	// Порт PostgreSQL
	DBPort int `env:"FSTR_DB_PORT" envDefault:"5432"`
	// Имя базы данных
	DBName string `env:"FSTR_DB_NAME" envDefault:"pereval"`
	// Имя пользователя PostgreSQL (обязательный)
	DBUser string `env:"FSTR_DB_LOGIN,required,notEmpty"`
	// Пароль пользователя PostgreSQL (обязательный)
	DBPassword string `env:"FSTR_DB_PASS,required,notEmpty"`
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string `env:"FSTR_DB_SSL_MODE" envDefault:"disable"`

	// --- topologymetrics ---

	// Группа сервиса в метриках зависимостей
	DephealthGroup string `env:"FSTR_DEPHEALTH_GROUP" envDefault:"pereval"`
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration `env:"FSTR_DEPHEALTH_CHECK_INTERVAL" envDefault:"15s"`

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration `env:"FSTR_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
// Если в рабочем каталоге есть .env, его переменные подхватываются,
// но не перекрывают уже заданные в окружении.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("разбор переменных окружения: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate проверяет диапазоны и допустимые значения после разбора.
func (c *Config) validate() error {
	var err error

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("FSTR_PORT: значение %d вне допустимого диапазона 1-65535", c.Port)
	}

	c.LogLevel, err = parseLogLevel(c.LogLevelRaw)
	if err != nil {
		return fmt.Errorf("FSTR_LOG_LEVEL: %w", err)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("FSTR_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", c.LogFormat)
	}

	if c.DBPort < 1 || c.DBPort > 65535 {
		return fmt.Errorf("FSTR_DB_PORT: значение %d вне допустимого диапазона 1-65535", c.DBPort)
	}

	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[c.DBSSLMode] {
		return fmt.Errorf("FSTR_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", c.DBSSLMode)
	}

	if c.DephealthCheckInterval <= 0 {
		return fmt.Errorf("FSTR_DEPHEALTH_CHECK_INTERVAL: значение должно быть > 0")
	}

	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool (URL-форма,
// учётные данные экранированы).
func (c *Config) DatabaseDSN() string {
	return c.connURL("postgres")
}

// MigrateURL возвращает URL для golang-migrate (драйвер pgx5).
func (c *Config) MigrateURL() string {
	return c.connURL("pgx5")
}

func (c *Config) connURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.hostPort(),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// DatabaseURL возвращает URL PostgreSQL без учётных данных.
// Используется только для лейблов метрик зависимостей.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.hostPort(),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

func (c *Config) hostPort() string {
	return net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

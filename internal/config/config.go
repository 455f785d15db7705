// Package config loads the dispatcher settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultMessageText is what GET /send-message delivers.
const DefaultMessageText = "Hello from Laravel 12 Telegraph!"

type Config struct {
	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	DB       DBConfig       `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`

	MessageText string `env:"MESSAGE_TEXT" envDefault:"Hello from Laravel 12 Telegraph!" validate:"required,max=4096"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080" validate:"required"`
	Mode            string        `env:"MODE" envDefault:"release" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"min=1s"`
	// Requests per second allowed per client on /send-message.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"1" validate:"gt=0"`
	RateBurst int     `env:"RATE_BURST" envDefault:"5" validate:"min=1"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	Format string `env:"FORMAT" envDefault:"console" validate:"oneof=console json"`
}

type DBConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres"`
	DSN    string `env:"DSN" envDefault:"telegraph.db" validate:"required"`
}

// RedisConfig enables the credential cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0" validate:"min=0"`
	TTL      time.Duration `env:"TTL" envDefault:"5m" validate:"min=1s"`
}

type TelegramConfig struct {
	APIEndpoint string        `env:"API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s" validate:"required,contains=%s"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s" validate:"min=1s,max=2m"`
	// Messages per second allowed per bot.
	BotRateLimit float64 `env:"BOT_RATE_LIMIT" envDefault:"30" validate:"gt=0"`
}

// AuthConfig guards the admin API. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" validate:"omitempty,min=16"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"min=1m"`
}

// Load reads .env (if any), then the process environment, and validates
// the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses and validates the process environment only.
func FromEnv() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AdminEnabled reports whether the JWT-protected routes are mounted.
func (c *Config) AdminEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// Package config loads rolecall settings from flags, ROLECALL_ environment
// variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ROLECALL"

	StorageMemory = "memory"
	StorageSQLite = "sqlite"

	minJWTSecretLength = 32
)

// Config holds everything needed to run the server or the demo.
type Config struct {
	Port         string        `mapstructure:"port" validate:"required"`
	Storage      string        `mapstructure:"storage" validate:"oneof=memory sqlite"`
	DatabasePath string        `mapstructure:"database_path" validate:"required_if=Storage sqlite"`
	Cache        CacheConfig   `mapstructure:"cache"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	BcryptCost   int           `mapstructure:"bcrypt_cost" validate:"min=4,max=14"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	LogLevel     string        `mapstructure:"log_level"`
	FetchDelay   time.Duration `mapstructure:"fetch_delay" validate:"min=0"`
	CounterDelay time.Duration `mapstructure:"counter_delay" validate:"min=0"`
	Seed         bool          `mapstructure:"seed"`
}

// CacheConfig selects the user cache backend. An empty RedisURL keeps the
// cache in process.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("storage", StorageMemory)
	v.SetDefault("database_path", "rolecall.db")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.prefix", "rolecall:user")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("cookie_secure", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("fetch_delay", 100*time.Millisecond)
	v.SetDefault("counter_delay", 10*time.Microsecond)
	v.SetDefault("seed", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes v into a validated Config.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage = strings.ToLower(cfg.Storage)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RequireJWTSecret reports whether the secret is usable for HMAC-SHA256 signing.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set ROLECALL_JWT_SECRET)")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

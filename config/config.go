package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is used as the config file name (flow.yaml).
	AppName = "flow"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "FLOW"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds the service configuration.
type Config struct {
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"` // "json" or "human"
	Listen    string `mapstructure:"listen"`

	Store struct {
		Backend     string `mapstructure:"backend"`
		DatabaseURL string `mapstructure:"database_url"`

		Redis struct {
			Addr     string        `mapstructure:"addr"`
			Password string        `mapstructure:"password"`
			DB       int           `mapstructure:"db"`
			Prefix   string        `mapstructure:"prefix"`
			TTL      time.Duration `mapstructure:"ttl"`
		} `mapstructure:"redis"`
	} `mapstructure:"store"`
}

// Load reads configuration from defaults, an optional file and FLOW_* environment
// variables, in increasing order of precedence. With an empty path, ./flow.yaml is
// used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is what the service read before FLOW_* variables existed.
	if err := v.BindEnv("store.database_url", "FLOW_STORE_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected store backend is usable.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config: store.database_url is required for the postgres backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("config: store.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("listen", ":3000")

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "flow:run:")
	v.SetDefault("store.redis.ttl", 0)
}

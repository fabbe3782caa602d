package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingMongoURI = errors.New("MONGO_URI is not set")

type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	MongoURI     string        `mapstructure:"MONGO_URI"`
	MongoDB      string        `mapstructure:"MONGO_DB"`
	MongoTimeout time.Duration `mapstructure:"MONGO_TIMEOUT"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	MQHost     string `mapstructure:"MQ_HOST"`
	MQPort     string `mapstructure:"MQ_PORT"`
	MQUser     string `mapstructure:"MQ_USER"`
	MQPassword string `mapstructure:"MQ_PASSWORD"`

	JaegerEndpoint string `mapstructure:"JAEGER_ENDPOINT"`

	RateLimit  int           `mapstructure:"RATE_LIMIT"`
	RateWindow time.Duration `mapstructure:"RATE_WINDOW"`
}

// Load reads .env (if present) and the process environment.
// MONGO_URI has no default: the service refuses to start without it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v)
	if err := readConfiguration(v); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.MongoURI = strings.TrimSpace(cfg.MongoURI)
	if cfg.MongoURI == "" {
		return nil, ErrMissingMongoURI
	}

	if cfg.MongoTimeout <= 0 {
		cfg.MongoTimeout = 5 * time.Second
	}
	// Zero disables the catalog cache and the rate limiter.
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	if cfg.RateLimit < 0 {
		cfg.RateLimit = 0
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("SERVER_PORT", "8001")

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB", "museums_db")
	v.SetDefault("MONGO_TIMEOUT", "5s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", "0")
	v.SetDefault("CACHE_TTL", "0")

	v.SetDefault("MQ_HOST", "localhost")
	v.SetDefault("MQ_PORT", "5672")
	v.SetDefault("MQ_USER", "guest")
	v.SetDefault("MQ_PASSWORD", "guest")

	v.SetDefault("JAEGER_ENDPOINT", "")

	v.SetDefault("RATE_LIMIT", "0")
	v.SetDefault("RATE_WINDOW", "1m")
}

func configureViper(v *viper.Viper) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func readConfiguration(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Warning: .env file not found, using defaults and system env")
			return nil
		}
		return fmt.Errorf("config file error: %w", err)
	}
	fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	return nil
}

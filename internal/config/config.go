package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PaymentConfig carries the gateway credentials. KeySecret signs callback
// payloads and therefore only ever arrives through the environment.
type PaymentConfig struct {
	Provider      string `yaml:"provider"` // razorpay | noop
	KeyID         string `yaml:"key_id"`
	KeySecret     string `yaml:"-"`
	BaseURL       string `yaml:"base_url"`
	OrderCurrency string `yaml:"order_currency"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"-"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type MediaConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ReconcilerConfig struct {
	Interval  time.Duration `yaml:"interval"`   // how often the sweep runs
	StaleAge  time.Duration `yaml:"stale_age"`  // pending age before a purchase is swept
	FailAfter time.Duration `yaml:"fail_after"` // unpaid age before it is marked failed
	BatchSize int           `yaml:"batch_size"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Payment    PaymentConfig    `yaml:"payment"`
	Auth       AuthConfig       `yaml:"auth"`
	Media      MediaConfig      `yaml:"media"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets come from the environment only; the yaml file never holds them.
	cfg.Payment.KeySecret = os.Getenv("PAYMENT_KEY_SECRET")
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Media.SecretKey = os.Getenv("MEDIA_SECRET_KEY")
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.Provider == "" {
		cfg.Payment.Provider = "razorpay"
	}
	if cfg.Payment.OrderCurrency == "" {
		cfg.Payment.OrderCurrency = "INR"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = 5 * time.Minute
	}
	if cfg.Reconciler.StaleAge <= 0 {
		cfg.Reconciler.StaleAge = 15 * time.Minute
	}
	if cfg.Reconciler.FailAfter <= 0 {
		cfg.Reconciler.FailAfter = 24 * time.Hour
	}
	if cfg.Reconciler.BatchSize <= 0 {
		cfg.Reconciler.BatchSize = 100
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.Payment.Provider == "razorpay" && cfg.Payment.KeySecret == "" {
		return nil, errors.New("PAYMENT_KEY_SECRET is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// Duration unmarshals from YAML strings like "15s" or "1h", or from a bare
// integer meaning seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Port           int      `yaml:"port"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTL      Duration `yaml:"ttl"`
}

type PaymentConfig struct {
	Provider      string `yaml:"provider"`       // simulated | (future gateways)
	KeySecret     string `yaml:"key_secret"`     // HMAC secret for order signature verification
	ApproveAll    bool   `yaml:"approve_all"`    // simulated gateway: approve every charge
	DeclineMethod string `yaml:"decline_method"` // simulated gateway: always decline this payment method
}

type CatalogConfig struct {
	DefaultPlanID string `yaml:"default_plan_id"`
}

type AdminConfig struct {
	JWTSecret  string   `yaml:"jwt_secret"`
	SessionTTL Duration `yaml:"session_ttl"`
	Password   string   `yaml:"password"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Admin    AdminConfig    `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = Duration(15 * time.Second)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.PoolSize <= 0 {
		cfg.Database.PoolSize = 10
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = Duration(time.Hour)
	}
	if cfg.Payment.Provider == "" {
		cfg.Payment.Provider = "simulated"
	}
	if cfg.Catalog.DefaultPlanID == "" {
		cfg.Catalog.DefaultPlanID = "standard"
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = Duration(30 * time.Minute)
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.Payment.KeySecret == "" {
		return nil, errors.New("payment.key_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

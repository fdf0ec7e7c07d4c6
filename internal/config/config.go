package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	PlanCacheRedis = "redis"
	PlanCacheLocal = "local"
	PlanCacheNone  = "none"
)

// DefaultAllowedOrigins are the frontend origins served during local development.
var DefaultAllowedOrigins = []string{
	"http://localhost:5500",
	"http://127.0.0.1:5500",
	"https://localhost:5500",
	"https://127.0.0.1:5500",
	"http://localhost:5000",
	"http://127.0.0.1:5000",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AllowedOrigins []string `toml:"allowed_origins"`

	PlanCache    string   `toml:"plan_cache"`
	PlanCacheTTL Duration `toml:"plan_cache_ttl"`

	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_per_min"`
	// set only when a reverse proxy in front rewrites X-Real-Ip / X-Forwarded-For
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`
	TracingEnabled    bool `toml:"tracing_enabled"`
}

// Duration lets TOML carry values like "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}

func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = DefaultAllowedOrigins
	}
	if c.PlanCache == "" {
		c.PlanCache = PlanCacheNone
	}
	if c.PlanCacheTTL.Duration == 0 {
		c.PlanCacheTTL.Duration = 10 * time.Minute
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
}

func (c *Config) validate() error {
	switch c.PlanCache {
	case PlanCacheRedis, PlanCacheLocal, PlanCacheNone:
	default:
		return fmt.Errorf("unknown plan cache: %q", c.PlanCache)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name are required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

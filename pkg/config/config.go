package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Cart     CartConfig
	Session  SessionConfig
	CORS     CORSConfig
	AuthRate AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KANTIN_APP_ENV" required:"true"`
	Port         string `envconfig:"KANTIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KANTIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KANTIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the remote canteen API.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"KANTIN_UPSTREAM_BASE_URL" required:"true"`
	MakerID string        `envconfig:"KANTIN_UPSTREAM_MAKER_ID" required:"true"`
	Timeout time.Duration `envconfig:"KANTIN_UPSTREAM_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream base url must be http(s), got %q", u.BaseURL)
	}
	return nil
}

// Origin returns the scheme://host part of the upstream base URL, used to
// resolve relative photo paths returned by the menu endpoints.
func (u UpstreamConfig) Origin() string {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

type RedisConfig struct {
	URL          string        `envconfig:"KANTIN_REDIS_URL"`
	Address      string        `envconfig:"KANTIN_REDIS_ADDR"`
	Password     string        `envconfig:"KANTIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"KANTIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KANTIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KANTIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KANTIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KANTIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KANTIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig selects the cart slot persistence backend.
type CartConfig struct {
	Backend    string        `envconfig:"KANTIN_CART_BACKEND" default:"redis"`
	SlotTTL    time.Duration `envconfig:"KANTIN_CART_SLOT_TTL" default:"720h"`
	SQLitePath string        `envconfig:"KANTIN_CART_SQLITE_PATH" default:"kantin_cart.db"`
}

func (c CartConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case CartBackendRedis, CartBackendSQLite, CartBackendMemory:
		return nil
	}
	return fmt.Errorf("unknown cart backend %q", c.Backend)
}

// NormalizedBackend returns the lower-cased backend selector.
func (c CartConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

// SessionConfig signs the gateway session tokens that wrap upstream bearer tokens.
type SessionConfig struct {
	Secret     string `envconfig:"KANTIN_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"KANTIN_SESSION_ISSUER" required:"true"`
	TTLMinutes int    `envconfig:"KANTIN_SESSION_TTL_MINUTES" default:"720"`
}

// TTL returns the configured session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KANTIN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// AuthRateLimitConfig throttles the login surface. Zero window disables it.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KANTIN_AUTH_RATE_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"KANTIN_AUTH_RATE_LOGIN_IP_LIMIT" default:"20"`
	LoginUsernameLimit int           `envconfig:"KANTIN_AUTH_RATE_LOGIN_USERNAME_LIMIT" default:"5"`
}

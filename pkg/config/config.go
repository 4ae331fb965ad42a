package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Password PasswordConfig
	Redis    RedisConfig
	AuthRate AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.JWT.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env         string `envconfig:"APP_ENV" default:"dev"`
	Port        string `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// JWTConfig carries the signing secret and token lifetimes. Lifetimes are
// configured in milliseconds to match the deployment's existing variables.
type JWTConfig struct {
	Secret              string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationMS        int64  `envconfig:"JWT_EXPIRATION_MS" default:"900000"`
	RefreshExpirationMS int64  `envconfig:"JWT_REFRESH_EXPIRATION_MS" default:"604800000"`
}

func (j JWTConfig) validate() error {
	if strings.TrimSpace(j.Secret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(j.Secret) < 64 {
		// HS512 wants a key at least as long as the hash output.
		return fmt.Errorf("JWT_SECRET must be at least 64 bytes")
	}
	if j.ExpirationMS <= 0 || j.RefreshExpirationMS <= 0 {
		return fmt.Errorf("jwt expirations must be positive")
	}
	if j.RefreshExpirationMS <= j.ExpirationMS {
		return fmt.Errorf("refresh expiration (%dms) must exceed access expiration (%dms)", j.RefreshExpirationMS, j.ExpirationMS)
	}
	return nil
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.ExpirationMS) * time.Millisecond
}

// RefreshTTL returns the refresh token lifetime.
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpirationMS) * time.Millisecond
}

type CookieConfig struct {
	Secure                string `envconfig:"COOKIE_SECURE" default:"true"`
	RefreshExpirationDays int    `envconfig:"REFRESH_TOKEN_EXPIRATION_DAYS" default:"7"`
}

// IsSecure reports whether refresh cookies carry the Secure attribute.
func (c CookieConfig) IsSecure() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Secure), "false")
}

// RefreshMaxAge returns the refresh cookie Max-Age in seconds.
func (c CookieConfig) RefreshMaxAge() int {
	return c.RefreshExpirationDays * 24 * 60 * 60
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARGON_KEY_LEN" default:"32"`
}

// RedisConfig is optional: when URL is empty the auth rate limiter is skipped.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit    int           `envconfig:"AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit int           `envconfig:"AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

package storefront

import (
	"net"
	"os"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Environment names recognized by Config.Env
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process configuration. Values come from an optional YAML
// file with environment variables layered on top.
type Config struct {
	Env    string       `yaml:"env" env:"APP_ENV" env-default:"development"`
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr returns the listen address in host:port form
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DBConfig holds the database connection settings
type DBConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-default:"file:storefront.db?cache=shared&mode=rwc"`
}

// AuthConfig holds the token and hashing parameters. The two signing
// secrets have no defaults on purpose: a process without them must not
// start.
type AuthConfig struct {
	AccessSecret     string        `yaml:"access_secret" env:"ACCESS_SECRET"`
	RefreshSecret    string        `yaml:"refresh_secret" env:"REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	AccessCookieAge  time.Duration `yaml:"access_cookie_age" env:"ACCESS_COOKIE_AGE" env-default:"24h"`
	RefreshCookieAge time.Duration `yaml:"refresh_cookie_age" env:"REFRESH_COOKIE_AGE" env-default:"168h"`
	Issuer           string        `yaml:"issuer" env:"TOKEN_ISSUER" env-default:"go-storefront"`
	HashCost         int           `yaml:"hash_cost" env:"HASH_COST" env-default:"12"`
}

// IsProduction reports whether secure transport attributes should be enforced
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate enforces the fail-fast startup invariants: both signing
// secrets and the database DSN must be present.
func (c *Config) Validate() error {
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return goerrors.New("ACCESS_SECRET and REFRESH_SECRET must be set", goerrors.CategoryOperation).
			WithTextCode(TextCodeMissingSecret)
	}

	if c.DB.DSN == "" {
		return goerrors.New("DATABASE_DSN must be set", goerrors.CategoryOperation)
	}

	return nil
}

// Load reads the configuration, layering environment variables over the
// YAML file when a path is given, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "config file not found")
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read config file")
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read environment")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is Load with a panic on error, for use at process start where
// a bad configuration is unrecoverable.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

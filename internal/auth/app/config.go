package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/keycard/pkg/httpx"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
)

// ErrConfiguration marks a configuration problem the service cannot start
// with, such as a missing or weak signing secret.
var ErrConfiguration = errors.New("configuration error")

// Store drivers accepted by AUTH_STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Issuer   string `env:"AUTH_ISSUER"   envDefault:"keycard-auth"`
	Audience string `env:"AUTH_AUDIENCE" envDefault:"keycard-api"`

	// JWTSecret is the HS256 secret; prefix with "base64:" for binary
	// secrets. JWTSecretFile is read when JWTSecret is empty.
	JWTSecret     string `env:"AUTH_JWT_SECRET"`
	JWTSecretFile string `env:"AUTH_JWT_SECRET_FILE"`

	AccessTTL    time.Duration `env:"AUTH_ACCESS_TTL"    envDefault:"15m"`
	RefreshTTL   time.Duration `env:"AUTH_REFRESH_TTL"   envDefault:"24h"`
	StoreTimeout time.Duration `env:"AUTH_STORE_TIMEOUT" envDefault:"5s"`

	StoreDriver  string `env:"AUTH_STORE_DRIVER"  envDefault:"sqlite"`
	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	DatabaseURL  string `env:"AUTH_DATABASE_URL"`
	PepperFile   string `env:"AUTH_PEPPER_FILE"   envDefault:"pepper"`

	Env                  string        `env:"ENV"                   envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	CredentialLimit    httpx.RateLimitConfig `envPrefix:"RATELIMIT_CREDENTIAL_"`
	AuthenticatedLimit httpx.RateLimitConfig `envPrefix:"RATELIMIT_AUTHENTICATED_"`
	AccountLimit       httpx.RateLimitConfig `envPrefix:"RATELIMIT_ACCOUNT_"`
	PublicLimit        httpx.RateLimitConfig `envPrefix:"RATELIMIT_PUBLIC_"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg := Config{
		CredentialLimit:    httpx.StrictLimit,
		AuthenticatedLimit: httpx.ModerateLimit,
		AccountLimit:       httpx.AccountLimit,
		PublicLimit:        httpx.PublicLimit,
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %w", ErrConfiguration, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("%w: AUTH_DATABASE_FILE is required for the sqlite driver", ErrConfiguration)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: AUTH_DATABASE_URL is required for the postgres driver", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown AUTH_STORE_DRIVER %q", ErrConfiguration, c.StoreDriver)
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrConfiguration)
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("%w: AUTH_REFRESH_TTL shorter than AUTH_ACCESS_TTL", ErrConfiguration)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: AUTH_STORE_TIMEOUT must be positive", ErrConfiguration)
	}
	return nil
}

// accessTTL falls back to the library default for zero-valued configs
// built in tests.
func (c Config) accessTTL() time.Duration {
	if c.AccessTTL > 0 {
		return c.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	OrderAPI OrderAPIConfig
	Gateway  GatewayConfig
	Poller   PollerConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Gateway.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRANKO_APP_ENV" required:"true"`
	Port         string `envconfig:"FRANKO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRANKO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRANKO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"FRANKO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRANKO_REDIS_ADDR"`
	Password     string        `envconfig:"FRANKO_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRANKO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRANKO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRANKO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRANKO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRANKO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRANKO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type OrderAPIConfig struct {
	BaseURL        string        `envconfig:"FRANKO_ORDER_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"FRANKO_ORDER_API_TIMEOUT" default:"15s"`
}

// GatewayConfig carries the hosted payment page credentials. These stay
// server-side; they must never be shipped to a client build.
type GatewayConfig struct {
	BaseURL               string        `envconfig:"FRANKO_GATEWAY_BASE_URL" required:"true"`
	APIID                 string        `envconfig:"FRANKO_GATEWAY_API_ID" required:"true"`
	APIKey                string        `envconfig:"FRANKO_GATEWAY_API_KEY" required:"true"`
	MerchantAccountNumber string        `envconfig:"FRANKO_GATEWAY_MERCHANT_ACCOUNT" required:"true"`
	CallbackURL           string        `envconfig:"FRANKO_GATEWAY_CALLBACK_URL" required:"true"`
	ReturnURL             string        `envconfig:"FRANKO_GATEWAY_RETURN_URL" required:"true"`
	CancellationURL       string        `envconfig:"FRANKO_GATEWAY_CANCELLATION_URL" required:"true"`
	RequestTimeout        time.Duration `envconfig:"FRANKO_GATEWAY_TIMEOUT" default:"15s"`
}

type PollerConfig struct {
	Interval       time.Duration `envconfig:"FRANKO_POLL_INTERVAL" default:"3s"`
	RequestTimeout time.Duration `envconfig:"FRANKO_POLL_REQUEST_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	PendingTTL time.Duration `envconfig:"FRANKO_CHECKOUT_PENDING_TTL" default:"24h"`
}

func (g GatewayConfig) validate() error {
	missing := []string{}
	if strings.TrimSpace(g.APIID) == "" {
		missing = append(missing, EnvGatewayAPIID)
	}
	if strings.TrimSpace(g.APIKey) == "" {
		missing = append(missing, EnvGatewayAPIKey)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s are required", strings.Join(missing, ", "))
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Gateway    GatewayConfig    `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
	Email      EmailConfig
	Backend    BackendConfig `validate:"required"`
	Store      StoreConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// GatewayConfig holds the payment gateway credentials. The secret key is
// only ever used server-side for the redirect initialization and verify
// calls; the public key is handed to the embedded flow.
type GatewayConfig struct {
	BaseURL     string `validate:"required"`
	PublicKey   string `validate:"required"`
	SecretKey   string `validate:"required"`
	CallbackURL string
}

type BillingConfig struct {
	PollInterval     time.Duration `validate:"required"`
	MaxPollAttempts  uint64        `validate:"required"`
	FulfillmentEmail string        `validate:"required,email"`
	PriceCacheTTL    time.Duration
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromAddress string
	ReplyTo     string
}

// BackendConfig points at the school-management backend that owns the
// subscription record, price list and transaction ledger.
type BackendConfig struct {
	BaseURL      string `validate:"required"`
	ServiceToken string
}

// StoreConfig holds the profile-scoped data directory for the
// pending-payment resume hint.
type StoreConfig struct {
	DataDir string
}

func NewConfig() (*Configuration, error) {
	// Load a local .env if present; env vars win over the config file
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shulepay")

	v.SetEnvPrefix("SHULEPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(c *Configuration) {
	if c.Billing.PollInterval == 0 {
		c.Billing.PollInterval = 10 * time.Second
	}
	if c.Billing.MaxPollAttempts == 0 {
		c.Billing.MaxPollAttempts = 30
	}
	if c.Billing.PriceCacheTTL == 0 {
		c.Billing.PriceCacheTTL = 15 * time.Minute
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "./data"
	}
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Gateway: GatewayConfig{
			BaseURL:     "https://api.paystack.co",
			PublicKey:   "pk_test_default",
			SecretKey:   "sk_test_default",
			CallbackURL: "http://localhost:8080/v1/billing/return",
		},
		Billing: BillingConfig{
			PollInterval:     10 * time.Second,
			MaxPollAttempts:  30,
			FulfillmentEmail: "upgrades@shulepay.test",
			PriceCacheTTL:    15 * time.Minute,
		},
		Backend: BackendConfig{BaseURL: "http://localhost:9090"},
		Store:   StoreConfig{DataDir: "./data"},
	}
}

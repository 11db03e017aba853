package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the bridge.
type Config struct {
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort  int           `envconfig:"PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Canada Post
	CanadaPostUsername       string `envconfig:"CANADAPOST_USERNAME"`
	CanadaPostPassword       string `envconfig:"CANADAPOST_PASSWORD"`
	CanadaPostCustomerNumber string `envconfig:"CANADAPOST_CUSTOMER_NUMBER"`
	CanadaPostContractID     string `envconfig:"CANADAPOST_CONTRACT_ID"`
	CanadaPostEnabled        bool   `envconfig:"CANADAPOST_ENABLED" default:"true"`
	CanadaPostTestMode       bool   `envconfig:"CANADAPOST_TEST_MODE" default:"true"`

	// FedEx
	FedexAPIKey        string `envconfig:"FEDEX_API_KEY"`
	FedexSecretKey     string `envconfig:"FEDEX_SECRET_KEY"`
	FedexAccountNumber string `envconfig:"FEDEX_ACCOUNT_NUMBER"`
	FedexAccessToken   string `envconfig:"FEDEX_ACCESS_TOKEN"`
	FedexEnabled       bool   `envconfig:"FEDEX_ENABLED" default:"true"`
	FedexTestMode      bool   `envconfig:"FEDEX_TEST_MODE" default:"true"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"parcelmesh-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("canadapost.enabled", c.CanadaPostEnabled),
		attribute.Bool("fedex.enabled", c.FedexEnabled),
	}
}

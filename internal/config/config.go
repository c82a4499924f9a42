// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/shipengine/pkg/shipengine"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service. Every recognized option
// is enumerated explicitly; envconfig ignores nothing silently and there
// is no dynamic settings bag.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// ShipEngine credentials. The sandbox flag selects which key is active.
	Sandbox          bool   `envconfig:"SHIPENGINE_SANDBOX" default:"false"`
	TestAPIKey       string `envconfig:"SHIPENGINE_TEST_API_KEY"`
	ProductionAPIKey string `envconfig:"SHIPENGINE_PRODUCTION_API_KEY"`
	BaseURL          string `envconfig:"SHIPENGINE_BASE_URL"`
	UseMock          bool   `envconfig:"SHIPENGINE_USE_MOCK" default:"false"`

	// Rate request defaults
	Insurance             bool   `envconfig:"SHIPENGINE_INSURANCE" default:"false"`
	Signature             bool   `envconfig:"SHIPENGINE_SIGNATURE" default:"false"`
	ValidateAddress       bool   `envconfig:"SHIPENGINE_VALIDATE_ADDRESS" default:"false"`
	WeightUnit            string `envconfig:"SHIPENGINE_WEIGHT_UNIT" default:"lbs"`
	DimensionUnit         string `envconfig:"SHIPENGINE_DIMENSION_UNIT" default:"in"`
	DefaultTariff         string `envconfig:"SHIPENGINE_DEFAULT_TARIFF"`
	CacheExpirationInSecs int    `envconfig:"SHIPENGINE_CACHE_EXPIRATION_SECS" default:"86400"`

	// Merchant origin address
	OriginName     string `envconfig:"ORIGIN_NAME"`
	OriginCompany  string `envconfig:"ORIGIN_COMPANY"`
	OriginPhone    string `envconfig:"ORIGIN_PHONE"`
	OriginCountry  string `envconfig:"ORIGIN_COUNTRY"`
	OriginState    string `envconfig:"ORIGIN_STATE"`
	OriginPostcode string `envconfig:"ORIGIN_POSTCODE"`
	OriginCity     string `envconfig:"ORIGIN_CITY"`
	OriginAddress1 string `envconfig:"ORIGIN_ADDRESS1"`
	OriginAddress2 string `envconfig:"ORIGIN_ADDRESS2"`

	// Cache store. An empty Redis address selects the in-memory store.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"shipengine-bridge"`
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

// Validate checks that the active credential is configured. A missing key
// blocks activation; nothing else is required up front.
func (c *Config) Validate() error {
	key := c.ProductionAPIKey
	name := "SHIPENGINE_PRODUCTION_API_KEY"
	if c.Sandbox {
		key = c.TestAPIKey
		name = "SHIPENGINE_TEST_API_KEY"
	}

	if key == "" && !c.UseMock {
		return fmt.Errorf("%s: %w", name, shipengine.ErrMissingAPIKey)
	}
	return nil
}

// Origin returns the configured merchant origin address.
func (c *Config) Origin() shipengine.Address {
	addr := shipengine.Address{
		Name:     c.OriginName,
		Company:  c.OriginCompany,
		Country:  c.OriginCountry,
		State:    c.OriginState,
		Postcode: c.OriginPostcode,
		City:     c.OriginCity,
		Address1: c.OriginAddress1,
		Address2: c.OriginAddress2,
	}
	if c.OriginPhone != "" {
		addr.Phone = shipengine.StringList{c.OriginPhone}
	}
	return addr
}

// Adapter maps the service configuration onto the adapter configuration.
func (c *Config) Adapter() shipengine.Config {
	return shipengine.Config{
		Sandbox:          c.Sandbox,
		TestAPIKey:       c.TestAPIKey,
		ProductionAPIKey: c.ProductionAPIKey,
		BaseURL:          c.BaseURL,
		UseMock:          c.UseMock,
		Origin:           c.Origin(),
		Insurance:        c.Insurance,
		Signature:        c.Signature,
		ValidateAddress:  c.ValidateAddress,
		WeightUnit:       c.WeightUnit,
		DimensionUnit:    c.DimensionUnit,
		DefaultTariff:    c.DefaultTariff,
		CacheExpiration:  time.Duration(c.CacheExpirationInSecs) * time.Second,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("shipengine.sandbox", c.Sandbox),
		attribute.Bool("shipengine.validate_address", c.ValidateAddress),
	}
}

// Package platform assembles the storefront: configuration, store and
// backend construction, and the serve loop.
package platform

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/atunesdelpacifico/storefront/pkg/cart"
)

// Config holds the complete storefront configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	Pricing PricingConfig `yaml:"pricing"`
}

// ServerConfig configures the JSON facade listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BackendConfig configures the sales backend client.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects and configures the persistence store.
type StoreConfig struct {
	// Driver is "sqlite", "postgres", or "memory".
	Driver string `yaml:"driver"`

	// Path is the database file for the sqlite driver.
	Path string `yaml:"path"`

	// DSN is the connection string for the postgres driver.
	DSN string `yaml:"dsn"`
}

// PricingConfig configures the cart pricing policy. Amounts are decimal
// strings so they survive YAML untouched by float parsing.
type PricingConfig struct {
	BulkGroupSize   int    `yaml:"bulk_group_size"`
	PctPerGroup     int64  `yaml:"pct_per_group"`
	FreeShippingMin string `yaml:"free_shipping_min"`
	ShippingFee     string `yaml:"shipping_fee"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and rejects unusable values.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		c.Server.Address = ":8090"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}

	switch c.Store.Driver {
	case "":
		c.Store.Driver = "sqlite"
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		c.Store.Path = "storefront.db"
	}
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the postgres driver")
	}

	if c.Pricing.BulkGroupSize == 0 {
		c.Pricing.BulkGroupSize = 10
	}
	if c.Pricing.PctPerGroup == 0 {
		c.Pricing.PctPerGroup = 1
	}
	if c.Pricing.FreeShippingMin == "" {
		c.Pricing.FreeShippingMin = "50.00"
	}
	if c.Pricing.ShippingFee == "" {
		c.Pricing.ShippingFee = "5.00"
	}
	if _, err := c.Pricing.Pricer(); err != nil {
		return err
	}
	return nil
}

// Pricer builds the cart pricing policy from configuration.
func (p PricingConfig) Pricer() (cart.Pricer, error) {
	freeMin, err := decimal.NewFromString(p.FreeShippingMin)
	if err != nil {
		return cart.Pricer{}, fmt.Errorf("invalid pricing.free_shipping_min: %w", err)
	}
	fee, err := decimal.NewFromString(p.ShippingFee)
	if err != nil {
		return cart.Pricer{}, fmt.Errorf("invalid pricing.shipping_fee: %w", err)
	}
	return cart.Pricer{
		BulkGroupSize:   p.BulkGroupSize,
		PctPerGroup:     p.PctPerGroup,
		FreeShippingMin: freeMin,
		ShippingFee:     fee,
	}, nil
}

package app

import (
	"fmt"
	"os"

	coreconfig "albumbot/core/config"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ShopConfig holds the sales-flow settings layered on top of the core bot
// configuration.
type ShopConfig struct {
	// DownloadLinkURL is delivered to the buyer after approval.
	DownloadLinkURL string `yaml:"download_link_url" envconfig:"SHOP_DOWNLOAD_LINK_URL"`
	// PaymentText is the payment instructions shown after the phone step.
	PaymentText string `yaml:"payment_text" envconfig:"SHOP_PAYMENT_TEXT"`
	// PhoneValidation toggles phone-format checks. Unset means enabled.
	PhoneValidation *bool `yaml:"phone_validation" envconfig:"SHOP_PHONE_VALIDATION"`
	// PhonePattern overrides the default phone regex when validation is on.
	PhonePattern string `yaml:"phone_pattern" envconfig:"SHOP_PHONE_PATTERN"`
	// CoverSource is the original album artwork.
	CoverSource string `yaml:"cover_source" envconfig:"SHOP_COVER_SOURCE"`
	// CoverOutput is where the downscaled cover is written; defaults to a
	// sibling of CoverSource.
	CoverOutput string `yaml:"cover_output" envconfig:"SHOP_COVER_OUTPUT"`
}

// PhoneValidationEnabled resolves the tri-state toggle.
func (c ShopConfig) PhoneValidationEnabled() bool {
	return c.PhoneValidation == nil || *c.PhoneValidation
}

// Config is the full application configuration: the core bot settings plus
// the shop section.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Shop ShopConfig `yaml:"shop"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file, applies environment overrides and
// validates both the core and shop sections.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := validateShop(&cfg.Shop); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateShop(shop *ShopConfig) error {
	if shop.DownloadLinkURL == "" {
		return fmt.Errorf("shop.download_link_url is required")
	}
	if shop.PaymentText == "" {
		return fmt.Errorf("shop.payment_text is required")
	}
	if shop.CoverSource == "" {
		return fmt.Errorf("shop.cover_source is required")
	}
	return nil
}

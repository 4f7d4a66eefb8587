// Package config loads rcpro settings from defaults, an optional YAML file,
// RCPRO_* environment variables and command-line flags, in increasing order
// of precedence.
//
// Example file (rcpro.yaml):
//
//	server:
//	  addr: ":8080"
//	pricing:
//	  url: https://staging-gtw.seraphin.be/quotes/professional-liability
//	  timeout: 0s
//	quote:
//	  stale_policy: latest-request
//
// The API key is normally supplied as RCPRO_PRICING_API_KEY.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/pricing"
)

// EnvPrefix prefixes every environment variable, e.g. RCPRO_SERVER_ADDR.
const EnvPrefix = "RCPRO"

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Profile   pricing.Profile `mapstructure:"profile"`
	Quote     QuoteConfig     `mapstructure:"quote"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig drives the web configurator. Sessions idle for SessionTTL
// are dropped and at most MaxSessions are kept.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	MaxSessions     int           `mapstructure:"max_sessions"`
}

// PricingConfig points at the quote API. A zero Timeout disables it.
type PricingConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// QuoteConfig selects the cover catalog and the stale-response policy.
type QuoteConfig struct {
	// Catalog is an optional YAML cover catalog replacing the embedded one.
	Catalog     string `mapstructure:"catalog"`
	StalePolicy string `mapstructure:"stale_policy"`
}

// TelemetryConfig gates OTLP export. Logs only apply when Enabled is set.
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Logs           bool          `mapstructure:"logs"`
	ServiceName    string        `mapstructure:"service_name"`
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// LogConfig controls the zap logger. File replaces stderr when set.
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers every key so environment variables can override it.
func SetDefaults(v *viper.Viper) {
	profile := pricing.DefaultProfile()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.session_ttl", 24*time.Hour)
	v.SetDefault("server.max_sessions", 10000)

	v.SetDefault("pricing.url", pricing.DefaultURL)
	v.SetDefault("pricing.api_key", "")
	v.SetDefault("pricing.timeout", time.Duration(0))

	v.SetDefault("profile.annual_revenue", profile.AnnualRevenue)
	v.SetDefault("profile.enterprise_number", profile.EnterpriseNumber)
	v.SetDefault("profile.legal_name", profile.LegalName)
	v.SetDefault("profile.natural_person", profile.NaturalPerson)
	v.SetDefault("profile.nacebel_codes", profile.NacebelCodes)

	v.SetDefault("quote.catalog", "")
	v.SetDefault("quote.stale_policy", "latest-request")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.logs", false)
	v.SetDefault("telemetry.service_name", "")
	v.SetDefault("telemetry.metric_interval", time.Duration(0))

	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")
}

// New returns a viper instance with defaults and environment binding. When
// cfgFile is empty, ./rcpro.yaml is read if present.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("rcpro")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the commands cannot run with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.MaxSessions < 0 {
		return errors.New("config: server.max_sessions must not be negative")
	}
	if c.Pricing.URL == "" {
		return errors.New("config: pricing.url is required")
	}
	if c.Pricing.Timeout < 0 {
		return errors.New("config: pricing.timeout must not be negative")
	}
	if c.Telemetry.MetricInterval < 0 {
		return errors.New("config: telemetry.metric_interval must not be negative")
	}
	if _, err := c.StalePolicy(); err != nil {
		return fmt.Errorf("config: quote.stale_policy: %w", err)
	}
	return nil
}

// StalePolicy parses Quote.StalePolicy.
func (c Config) StalePolicy() (configurator.StalePolicy, error) {
	return configurator.ParseStalePolicy(c.Quote.StalePolicy)
}

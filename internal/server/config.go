package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every server environment variable (CATALOG_PORT, ...)
const EnvPrefix = "CATALOG"

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	Store           string // "memory" or a SQLite database path
	Seed            bool   // Load demo products into an empty store
	CertPath        string // Serve HTTPS when both CertPath and KeyPath are set
	KeyPath         string
	Advertise       bool   // Announce the server over mDNS
	Instance        string // mDNS instance name
	LogLevel        string
	LogFormat       string // console or json
	ShutdownTimeout time.Duration
}

// SetDefaults registers the default configuration on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("port", 3000)
	v.SetDefault("store", "memory")
	v.SetDefault("seed", false)
	v.SetDefault("tls_cert", "")
	v.SetDefault("tls_key", "")
	v.SetDefault("advertise", false)
	v.SetDefault("instance", "catalog")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("shutdown_timeout", "10s")
}

// LoadConfig reads the configuration from v: defaults, then CATALOG_*
// environment variables, then whatever flags were bound to v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	shutdownTimeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	cfg := &Config{
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		Store:           v.GetString("store"),
		Seed:            v.GetBool("seed"),
		CertPath:        v.GetString("tls_cert"),
		KeyPath:         v.GetString("tls_key"),
		Advertise:       v.GetBool("advertise"),
		Instance:        v.GetString("instance"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if (c.CertPath == "") != (c.KeyPath == "") {
		return fmt.Errorf("tls_cert and tls_key must be set together")
	}
	if c.Advertise && c.Port == 0 {
		return fmt.Errorf("advertise needs a fixed port")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q (expected console or json)", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TLSEnabled reports whether HTTPS is configured
func (c *Config) TLSEnabled() bool {
	return c.CertPath != "" && c.KeyPath != ""
}

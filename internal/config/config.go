// Package config loads buildlab's YAML configuration.
//
// Config file locations (priority order):
//  1. $BUILDLAB_CONFIG
//  2. ./buildlab.yaml
//  3. $XDG_CONFIG_HOME/buildlab/config.yaml
//  4. ~/.config/buildlab/config.yaml
//  5. /etc/buildlab/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr         = ":3000"
	DefaultSessionTTL   = 2 * time.Hour
	DefaultLogLevel     = "info"
	DefaultActivityTail = 50
	DefaultGateway      = "192.168.1.1"
	DefaultSubnetMask   = "255.255.255.0"
	DefaultDNS          = "8.8.8.8"
	DefaultFirstHost    = 100
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks field formats after defaults are applied
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	allow := true
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:       DefaultAddr,
			SessionTTL: Duration(DefaultSessionTTL),
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Lab: LabConfig{
			AllowDuplicateCables: &allow,
			ActivityTail:         DefaultActivityTail,
			AutoNetwork: AutoNetworkConfig{
				Gateway:    DefaultGateway,
				SubnetMask: DefaultSubnetMask,
				DNS:        DefaultDNS,
				FirstHost:  DefaultFirstHost,
			},
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = Duration(DefaultSessionTTL)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Lab.AllowDuplicateCables == nil {
		allow := true
		c.Lab.AllowDuplicateCables = &allow
	}
	if c.Lab.ActivityTail == 0 {
		c.Lab.ActivityTail = DefaultActivityTail
	}

	auto := &c.Lab.AutoNetwork
	if auto.Gateway == "" {
		auto.Gateway = DefaultGateway
	}
	if auto.SubnetMask == "" {
		auto.SubnetMask = DefaultSubnetMask
	}
	if auto.DNS == "" {
		auto.DNS = DefaultDNS
	}
	if auto.FirstHost == 0 {
		auto.FirstHost = DefaultFirstHost
	}
}

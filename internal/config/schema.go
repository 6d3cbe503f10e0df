package config

import (
	"time"

	"buildlab/internal/domain"
)

// Config is the on-disk configuration
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Lab      LabConfig      `yaml:"lab"`
	Scenario ScenarioConfig `yaml:"scenario,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr       string   `yaml:"addr" validate:"required"`
	SessionTTL Duration `yaml:"session_ttl" validate:"gt=0"`
}

// LogConfig holds process log settings
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
}

// LabConfig holds the defaults applied to every new lab
type LabConfig struct {
	// AllowDuplicateCables is nil when the file does not mention it
	AllowDuplicateCables *bool             `yaml:"allow_duplicate_cables,omitempty"`
	ActivityTail         int               `yaml:"activity_tail" validate:"gte=1"`
	AutoNetwork          AutoNetworkConfig `yaml:"auto_network"`
}

// DuplicateCables reports the effective duplicate cable policy
func (l LabConfig) DuplicateCables() bool {
	return l.AllowDuplicateCables == nil || *l.AllowDuplicateCables
}

// AutoNetworkConfig seeds automatic network mode
type AutoNetworkConfig struct {
	Gateway    string `yaml:"gateway" validate:"ipv4"`
	SubnetMask string `yaml:"subnet_mask" validate:"ipv4"`
	DNS        string `yaml:"dns" validate:"ipv4"`
	FirstHost  int    `yaml:"first_host" validate:"gte=1,lte=254"`
}

// Defaults returns the network settings without an address
func (a AutoNetworkConfig) Defaults() domain.NetworkConfig {
	return domain.NetworkConfig{
		SubnetMask: a.SubnetMask,
		Gateway:    a.Gateway,
		DNS:        a.DNS,
	}
}

// ScenarioConfig points at a scenario replayed into every new session.
// With Watch set, edits to the file apply to sessions created afterwards.
type ScenarioConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

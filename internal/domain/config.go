package domain

import (
	"fmt"
	"strings"
)

// HardwareSpec is the set of components installed in a computer. Each
// field is a descriptive string with embedded numeric attributes such as
// core counts and wattage.
type HardwareSpec struct {
	CPU     string `json:"cpu" yaml:"cpu" validate:"required"`
	RAM     string `json:"ram" yaml:"ram" validate:"required"`
	Storage string `json:"storage" yaml:"storage" validate:"required"`
	GPU     string `json:"gpu" yaml:"gpu" validate:"required"`
	PSU     string `json:"psu" yaml:"psu" validate:"required"`
}

// OSKind is the operating system family
type OSKind string

const (
	OSWindows OSKind = "windows"
	OSLinux   OSKind = "linux"
)

// ParseOSKind parses an OS family name
func ParseOSKind(s string) (OSKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows", "win":
		return OSWindows, nil
	case "linux":
		return OSLinux, nil
	}
	return "", fmt.Errorf("unknown os kind %q", s)
}

// OSConfig describes the operating system installed on a computer
type OSConfig struct {
	Kind    OSKind `json:"os_kind" yaml:"os_kind"`
	Edition string `json:"edition" yaml:"edition"`
}

// NetworkConfig is the IPv4 configuration attached to a computer
type NetworkConfig struct {
	IP         string `json:"ip" yaml:"ip"`
	SubnetMask string `json:"subnet_mask" yaml:"subnet_mask"`
	Gateway    string `json:"gateway" yaml:"gateway"`
	DNS        string `json:"dns" yaml:"dns"`
}

// PerformanceMetrics is derived from a computer's hardware and network.
// Scores are 0-100, times are milliseconds.
type PerformanceMetrics struct {
	Overall         int `json:"overall"`
	CPUScore        int `json:"cpu_score"`
	RAMScore        int `json:"ram_score"`
	StorageScore    int `json:"storage_score"`
	GPUScore        int `json:"gpu_score"`
	NetworkScore    int `json:"network_score"`
	VMBootTime      int `json:"vm_boot_time"`
	BrowserLoadTime int `json:"browser_load_time"`
	AppResponseTime int `json:"app_response_time"`
}

// ComputerConfig is the configuration owned by a single computer node
type ComputerConfig struct {
	Hardware *HardwareSpec       `json:"hardware,omitempty"`
	OS       *OSConfig           `json:"os,omitempty"`
	Network  *NetworkConfig      `json:"network,omitempty"`
	Metrics  *PerformanceMetrics `json:"metrics,omitempty"`
}

// HasHardware reports whether hardware has been installed
func (c *ComputerConfig) HasHardware() bool {
	return c != nil && c.Hardware != nil
}

// HasOS reports whether an operating system has been installed
func (c *ComputerConfig) HasOS() bool {
	return c != nil && c.OS != nil
}

// Clone returns a deep copy so callers cannot mutate owned state
func (c *ComputerConfig) Clone() *ComputerConfig {
	if c == nil {
		return nil
	}
	out := &ComputerConfig{}
	if c.Hardware != nil {
		hw := *c.Hardware
		out.Hardware = &hw
	}
	if c.OS != nil {
		os := *c.OS
		out.OS = &os
	}
	if c.Network != nil {
		nc := *c.Network
		out.Network = &nc
	}
	if c.Metrics != nil {
		m := *c.Metrics
		out.Metrics = &m
	}
	return out
}

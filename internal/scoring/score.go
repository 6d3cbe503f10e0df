// Package scoring derives illustrative performance metrics from a
// computer's hardware and network configuration. Every function here is
// pure and deterministic.
package scoring

import (
	"buildlab/internal/domain"
	"buildlab/internal/netcfg"
)

// Weights in percent; they sum to 100
const (
	WeightCPU     = 30
	WeightRAM     = 25
	WeightStorage = 15
	WeightGPU     = 20
	WeightNetwork = 10
)

// Network score parameters
const (
	NetworkDefault     = 50
	NetworkBase        = 50
	BonusPublicDNS     = 20
	BonusValidAddress  = 20
	BonusCanonicalMask = 10
	CanonicalMask      = "255.255.255.0"
)

// Latency floors in milliseconds
const (
	MinVMBootTime      = 500
	MinBrowserLoadTime = 300
	MinAppResponseTime = 100
)

var publicResolvers = map[string]bool{
	"8.8.8.8":         true,
	"8.8.4.4":         true,
	"1.1.1.1":         true,
	"1.0.0.1":         true,
	"9.9.9.9":         true,
	"149.112.112.112": true,
	"208.67.222.222":  true,
	"208.67.220.220":  true,
}

// Score computes metrics for hardware and an optional network config
func Score(hw domain.HardwareSpec, network *domain.NetworkConfig) domain.PerformanceMetrics {
	m := domain.PerformanceMetrics{
		CPUScore:     clamp(CPUTable.Evaluate(hw.CPU), 0, 100),
		RAMScore:     clamp(RAMTable.Evaluate(hw.RAM), 0, 100),
		StorageScore: clamp(StorageTable.Evaluate(hw.Storage), 0, 100),
		GPUScore:     clamp(GPUTable.Evaluate(hw.GPU), 0, 100),
		NetworkScore: NetworkScore(network),
	}

	m.Overall = Overall(m.CPUScore, m.RAMScore, m.StorageScore, m.GPUScore, m.NetworkScore)
	m.VMBootTime = max(MinVMBootTime, 5000-45*m.Overall)
	m.BrowserLoadTime = max(MinBrowserLoadTime, 3000-27*m.Overall-10*m.NetworkScore)
	m.AppResponseTime = max(MinAppResponseTime, 1000-9*m.Overall)
	return m
}

// Overall combines the sub-scores with the fixed weights, rounding half up
func Overall(cpu, ram, storage, gpu, network int) int {
	sum := WeightCPU*cpu + WeightRAM*ram + WeightStorage*storage + WeightGPU*gpu + WeightNetwork*network
	return clamp((sum+50)/100, 0, 100)
}

// NetworkScore rates a network config; nil yields the neutral default
func NetworkScore(network *domain.NetworkConfig) int {
	if network == nil {
		return NetworkDefault
	}
	score := NetworkBase
	if publicResolvers[network.DNS] {
		score += BonusPublicDNS
	}
	if netcfg.IsDottedQuad(network.IP) && netcfg.IsDottedQuad(network.Gateway) {
		score += BonusValidAddress
	}
	if network.SubnetMask == CanonicalMask {
		score += BonusCanonicalMask
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

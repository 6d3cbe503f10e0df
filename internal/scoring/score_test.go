package scoring

import (
	"testing"

	"buildlab/internal/domain"
)

var referenceHardware = domain.HardwareSpec{
	CPU:     "Intel Core i9-13900K...253W",
	RAM:     "32GB DDR4...20W",
	Storage: "1TB NVMe SSD...7000MB/s...10W",
	GPU:     "NVIDIA RTX 4070...200W",
	PSU:     "750W 80+ Gold",
}

var referenceNetwork = domain.NetworkConfig{
	IP:         "192.168.1.50",
	SubnetMask: "255.255.255.0",
	Gateway:    "192.168.1.1",
	DNS:        "8.8.8.8",
}

func TestScoreReferenceBuild(t *testing.T) {
	t.Run("without network", func(t *testing.T) {
		got := Score(referenceHardware, nil)
		want := domain.PerformanceMetrics{
			Overall:         87,
			CPUScore:        95,
			RAMScore:        85,
			StorageScore:    95,
			GPUScore:        88,
			NetworkScore:    50,
			VMBootTime:      1085,
			BrowserLoadTime: 300,
			AppResponseTime: 217,
		}
		if got != want {
			t.Errorf("Score() = %+v\nwant %+v", got, want)
		}
	})

	t.Run("with network", func(t *testing.T) {
		got := Score(referenceHardware, &referenceNetwork)
		if got.NetworkScore != 100 {
			t.Errorf("expected network score 100, got %d", got.NetworkScore)
		}
		if got.Overall != 92 {
			t.Errorf("expected overall 92, got %d", got.Overall)
		}
		if got.VMBootTime != 860 {
			t.Errorf("expected vm boot 860, got %d", got.VMBootTime)
		}
		if got.AppResponseTime != 172 {
			t.Errorf("expected app response 172, got %d", got.AppResponseTime)
		}
	})
}

func TestScoreLowEndLatencies(t *testing.T) {
	hw := domain.HardwareSpec{
		CPU:     "Intel Celeron G6900",
		RAM:     "4GB DDR4",
		Storage: "500GB HDD",
		GPU:     "Intel UHD Graphics 710",
		PSU:     "300W",
	}
	got := Score(hw, nil)

	// 30*35 + 25*25 + 15*40 + 20*30 + 10*50 = 3375 -> 34
	if got.Overall != 34 {
		t.Fatalf("expected overall 34, got %d", got.Overall)
	}
	if got.VMBootTime != 5000-45*34 {
		t.Errorf("expected vm boot %d, got %d", 5000-45*34, got.VMBootTime)
	}
	if got.BrowserLoadTime != 3000-27*34-10*50 {
		t.Errorf("expected browser load %d, got %d", 3000-27*34-10*50, got.BrowserLoadTime)
	}
	if got.AppResponseTime != 1000-9*34 {
		t.Errorf("expected app response %d, got %d", 1000-9*34, got.AppResponseTime)
	}
}

func TestScoreUnknownComponentsFallBack(t *testing.T) {
	got := Score(domain.HardwareSpec{}, nil)
	if got.CPUScore != CPUTable.Fallback || got.RAMScore != RAMTable.Fallback ||
		got.StorageScore != StorageTable.Fallback || got.GPUScore != GPUTable.Fallback {
		t.Errorf("expected fallback scores, got %+v", got)
	}
}

func TestOverallRoundsHalfUp(t *testing.T) {
	// 30*1 + 25*1 + 15*1 + 20*1 + 10*0 = 90 -> 0.9 -> 1
	if got := Overall(1, 1, 1, 1, 0); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	// 10*5 = 50 -> 0.5 -> 1
	if got := Overall(0, 0, 0, 0, 5); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := Overall(100, 100, 100, 100, 100); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestNetworkScore(t *testing.T) {
	tests := []struct {
		name string
		cfg  *domain.NetworkConfig
		want int
	}{
		{"no network", nil, 50},
		{"everything", &referenceNetwork, 100},
		{"private dns", &domain.NetworkConfig{IP: "192.168.1.50", SubnetMask: "255.255.255.0", Gateway: "192.168.1.1", DNS: "192.168.1.1"}, 80},
		{"wide mask", &domain.NetworkConfig{IP: "10.0.0.5", SubnetMask: "255.0.0.0", Gateway: "10.0.0.1", DNS: "1.1.1.1"}, 90},
		{"garbage", &domain.NetworkConfig{IP: "x", SubnetMask: "y", Gateway: "z", DNS: "w"}, 50},
	}

	for _, tt := range tests {
		if got := NetworkScore(tt.cfg); got != tt.want {
			t.Errorf("%s: NetworkScore() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

package netcfg

import (
	"testing"

	"buildlab/internal/domain"
)

var defaults = domain.NetworkConfig{SubnetMask: "255.255.255.0", Gateway: "192.168.1.1", DNS: "8.8.8.8"}

func TestAutoAssign(t *testing.T) {
	t.Run("uses defaults when base is empty", func(t *testing.T) {
		got := AutoAssign(domain.NetworkConfig{}, defaults, nil, 100)
		if got.IP != "192.168.1.100" {
			t.Errorf("expected 192.168.1.100, got %s", got.IP)
		}
		if got.Gateway != "192.168.1.1" || got.DNS != "8.8.8.8" {
			t.Errorf("unexpected defaults %+v", got)
		}
		if !IsValidConfig(got) {
			t.Errorf("expected %+v to validate", got)
		}
	})

	t.Run("keeps existing subnet", func(t *testing.T) {
		base := domain.NetworkConfig{IP: "10.9.9.9", SubnetMask: "255.255.0.0", Gateway: "172.16.0.1", DNS: "1.1.1.1"}
		got := AutoAssign(base, defaults, nil, 100)
		if got.IP != "172.16.0.100" {
			t.Errorf("expected 172.16.0.100, got %s", got.IP)
		}
		if got.DNS != "1.1.1.1" {
			t.Errorf("expected base DNS kept, got %s", got.DNS)
		}
		if !IsValidConfig(got) {
			t.Errorf("expected %+v to validate", got)
		}
	})

	t.Run("skips used addresses", func(t *testing.T) {
		got := AutoAssign(domain.NetworkConfig{}, defaults, []string{"192.168.1.100", "192.168.1.101"}, 100)
		if got.IP != "192.168.1.102" {
			t.Errorf("expected 192.168.1.102, got %s", got.IP)
		}
	})

	t.Run("skips gateway", func(t *testing.T) {
		got := AutoAssign(domain.NetworkConfig{}, defaults, nil, 1)
		if got.IP != "192.168.1.2" {
			t.Errorf("expected 192.168.1.2, got %s", got.IP)
		}
	})

	t.Run("wraps around the host range", func(t *testing.T) {
		used := []string{"192.168.1.253", "192.168.1.254"}
		got := AutoAssign(domain.NetworkConfig{}, defaults, used, 253)
		if got.IP != "192.168.1.2" {
			t.Errorf("expected wrap to 192.168.1.2, got %s", got.IP)
		}
	})

	t.Run("always validates for narrow masks", func(t *testing.T) {
		base := domain.NetworkConfig{SubnetMask: "255.255.255.254", Gateway: "10.0.0.1", DNS: "8.8.8.8"}
		got := AutoAssign(base, defaults, nil, 100)
		if !IsValidConfig(got) {
			t.Errorf("expected %+v to validate", got)
		}
	})
}

func TestAutoAssignNonContiguousMask(t *testing.T) {
	base := domain.NetworkConfig{IP: "10.0.5.1", SubnetMask: "255.255.0.255", Gateway: "10.0.0.1", DNS: "8.8.8.8"}
	if err := Validate(base); err != nil {
		t.Fatalf("expected base to validate, got %v", err)
	}

	got := AutoAssign(base, defaults, nil, 100)
	if got.IP != "10.0.100.1" {
		t.Errorf("expected 10.0.100.1, got %s", got.IP)
	}
	if err := Validate(got); err != nil {
		t.Errorf("expected %+v to validate, got %v", got, err)
	}

	got = AutoAssign(base, defaults, []string{"10.0.100.1"}, 100)
	if got.IP != "10.0.101.1" {
		t.Errorf("expected 10.0.101.1, got %s", got.IP)
	}

	// Every first host across the range lands inside the subnet
	for first := 1; first <= 300; first += 7 {
		if cfg := AutoAssign(base, defaults, nil, first); !IsValidConfig(cfg) {
			t.Errorf("firstHost %d: %+v does not validate", first, cfg)
		}
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		n    uint64
		mask uint32
		want uint32
	}{
		{5, 0x000000ff, 5},
		{1, 0x0000ff00, 0x100},
		{3, 0x00010001, 0x00010001},
		{2, 0x00010001, 0x00010000},
		{0, 0xffffffff, 0},
	}
	for _, tt := range tests {
		if got := deposit(tt.n, tt.mask); got != tt.want {
			t.Errorf("deposit(%d, %#x) = %#x, want %#x", tt.n, tt.mask, got, tt.want)
		}
	}
}

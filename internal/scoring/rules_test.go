package scoring

import (
	"testing"

	"buildlab/internal/catalog"
)

func TestRAMRuleOrder(t *testing.T) {
	tests := []struct {
		spec string
		want int
	}{
		{"32GB DDR5 6000MHz", 92},
		{"32GB DDR4 3600MHz", 85},
		{"128GB DDR5", 100},
		{"64GB DDR4", 95},
		{"16GB DDR5", 75},
		{"8GB DDR4", 45},
		{"48GB DDR5 6400MHz", 40},
		{"24GB DDR5", 40},
		{"2x8GB DDR4", 45},
		{"16 GB DDR4", 68},
		{"4GB DDR3", 25},
		{"some memory", 40},
	}

	for _, tt := range tests {
		if got := RAMTable.Evaluate(tt.spec); got != tt.want {
			t.Errorf("RAMTable.Evaluate(%q) = %d, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestRuleOrderIsSignificant(t *testing.T) {
	// generic capacity rule ahead of the DDR5 rule
	var generic, ddr5 Rule
	for _, r := range RAMTable.Rules {
		switch r.Name {
		case "32GB":
			generic = r
		case "32GB DDR5":
			ddr5 = r
		}
	}
	reordered := Table{Rules: []Rule{generic, ddr5}, Fallback: RAMTable.Fallback}

	if got := reordered.Evaluate("32GB DDR5"); got != generic.Score {
		t.Errorf("expected reordered table to award %d, got %d", generic.Score, got)
	}
	if got := RAMTable.Evaluate("32GB DDR5"); got != ddr5.Score {
		t.Errorf("expected canonical table to award %d, got %d", ddr5.Score, got)
	}
}

func TestStorageRuleOrder(t *testing.T) {
	tests := []struct {
		spec string
		want int
	}{
		{"1TB NVMe SSD (7000MB/s) 10W", 95},
		{"1TB NVMe SSD (3500MB/s) 7W", 85},
		{"512GB SATA SSD (550MB/s) 5W", 72},
		{"1TB HDD 7200RPM (160MB/s) 8W", 40},
		{"floppy", 50},
	}

	for _, tt := range tests {
		if got := StorageTable.Evaluate(tt.spec); got != tt.want {
			t.Errorf("StorageTable.Evaluate(%q) = %d, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestCPUAndGPUTables(t *testing.T) {
	cpuTests := map[string]int{
		"AMD Threadripper 7980X": 98,
		"AMD Ryzen 9 7950X":      95,
		"Intel Core i7-13700K":   85,
		"AMD Ryzen 5 7600X":      72,
		"Intel Core i3-13100":    55,
		"Apple M2":               50,
	}
	for spec, want := range cpuTests {
		if got := CPUTable.Evaluate(spec); got != want {
			t.Errorf("CPUTable.Evaluate(%q) = %d, want %d", spec, got, want)
		}
	}

	gpuTests := map[string]int{
		"NVIDIA RTX 4090":        100,
		"AMD Radeon RX 7900 XTX": 93,
		"NVIDIA RTX 3060":        78,
		"NVIDIA RTX 2080":        75,
		"NVIDIA GTX 1660 Super":  58,
		"Intel UHD Graphics 770": 30,
		"Matrox G200":            40,
	}
	for spec, want := range gpuTests {
		if got := GPUTable.Evaluate(spec); got != want {
			t.Errorf("GPUTable.Evaluate(%q) = %d, want %d", spec, got, want)
		}
	}
}

func TestEveryCatalogEntryMatchesARule(t *testing.T) {
	for _, c := range catalog.CPUs() {
		if _, ok := CPUTable.Match(c.Label()); !ok {
			t.Errorf("no CPU rule for %q", c.Label())
		}
	}
	for _, r := range catalog.RAMs() {
		if _, ok := RAMTable.Match(r.Label()); !ok {
			t.Errorf("no RAM rule for %q", r.Label())
		}
	}
	for _, s := range catalog.Storages() {
		if _, ok := StorageTable.Match(s.Label()); !ok {
			t.Errorf("no storage rule for %q", s.Label())
		}
	}
	for _, g := range catalog.GPUs() {
		if _, ok := GPUTable.Match(g.Label()); !ok {
			t.Errorf("no GPU rule for %q", g.Label())
		}
	}
}

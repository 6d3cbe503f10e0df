// Package catalog holds the static tables of selectable components and
// the parsers that recover numeric attributes from component strings.
package catalog

import "fmt"

// StorageType orders storage technologies from slowest to fastest
type StorageType int

const (
	StorageUnknown StorageType = iota
	StorageHDD
	StorageSSD
	StorageNVMe
)

func (t StorageType) String() string {
	switch t {
	case StorageHDD:
		return "HDD"
	case StorageSSD:
		return "SSD"
	case StorageNVMe:
		return "NVMe"
	}
	return "unknown"
}

// CPU is a processor entry
type CPU struct {
	Name    string `json:"name"`
	Cores   int    `json:"cores"`
	Threads int    `json:"threads"`
	Watts   int    `json:"watts"`
}

// Label renders the descriptive string stored in a HardwareSpec
func (c CPU) Label() string {
	return fmt.Sprintf("%s (%d cores / %d threads) %dW", c.Name, c.Cores, c.Threads, c.Watts)
}

// RAM is a memory kit entry
type RAM struct {
	CapacityGB int `json:"capacity_gb"`
	Generation int `json:"generation"` // DDR generation, 0 if unknown
	SpeedMHz   int `json:"speed_mhz"`
	Watts      int `json:"watts"`
}

// Label renders the descriptive string stored in a HardwareSpec
func (r RAM) Label() string {
	return fmt.Sprintf("%dGB DDR%d %dMHz %dW", r.CapacityGB, r.Generation, r.SpeedMHz, r.Watts)
}

// Storage is a drive entry
type Storage struct {
	CapacityGB int         `json:"capacity_gb"`
	Type       StorageType `json:"type"`
	ReadMBps   int         `json:"read_mbps"`
	Watts      int         `json:"watts"`
}

// Label renders the descriptive string stored in a HardwareSpec
func (s Storage) Label() string {
	size := fmt.Sprintf("%dGB", s.CapacityGB)
	if s.CapacityGB >= 1024 {
		size = fmt.Sprintf("%dTB", s.CapacityGB/1024)
	}
	kind := "HDD 7200RPM"
	switch s.Type {
	case StorageSSD:
		kind = "SATA SSD"
	case StorageNVMe:
		kind = "NVMe SSD"
	}
	return fmt.Sprintf("%s %s (%dMB/s) %dW", size, kind, s.ReadMBps, s.Watts)
}

// GPU is a graphics card entry
type GPU struct {
	Name         string `json:"name"`
	ComputeUnits int    `json:"compute_units"`
	UnitName     string `json:"unit_name"` // "CUDA cores", "CUs", "EUs"
	VRAMGB       int    `json:"vram_gb"`
	Memory       string `json:"memory"`
	Watts        int    `json:"watts"`
}

// Label renders the descriptive string stored in a HardwareSpec
func (g GPU) Label() string {
	if g.VRAMGB == 0 {
		return fmt.Sprintf("%s (%d %s, shared memory) %dW", g.Name, g.ComputeUnits, g.UnitName, g.Watts)
	}
	return fmt.Sprintf("%s (%d %s, %dGB %s) %dW", g.Name, g.ComputeUnits, g.UnitName, g.VRAMGB, g.Memory, g.Watts)
}

// PSU is a power supply entry
type PSU struct {
	Watts  int    `json:"watts"`
	Rating string `json:"rating"`
}

// Label renders the descriptive string stored in a HardwareSpec
func (p PSU) Label() string {
	return fmt.Sprintf("%dW 80+ %s", p.Watts, p.Rating)
}

var cpus = []CPU{
	{"Intel Core i3-13100", 4, 8, 89},
	{"Intel Core i5-13600K", 14, 20, 181},
	{"Intel Core i7-13700K", 16, 24, 253},
	{"Intel Core i9-13900K", 24, 32, 253},
	{"AMD Ryzen 5 7600X", 6, 12, 105},
	{"AMD Ryzen 7 7800X3D", 8, 16, 120},
	{"AMD Ryzen 9 7950X", 16, 32, 170},
	{"AMD Threadripper 7980X", 64, 128, 350},
}

var rams = []RAM{
	{8, 4, 3200, 5},
	{16, 4, 3200, 10},
	{32, 4, 3600, 20},
	{16, 5, 5600, 10},
	{32, 5, 6000, 20},
	{64, 5, 6000, 30},
	{128, 5, 5200, 50},
}

var storages = []Storage{
	{1024, StorageHDD, 160, 8},
	{512, StorageSSD, 550, 5},
	{1024, StorageNVMe, 3500, 7},
	{1024, StorageNVMe, 7000, 10},
	{2048, StorageNVMe, 7400, 10},
	{4096, StorageNVMe, 7450, 12},
}

var gpus = []GPU{
	{"Intel UHD Graphics 770", 32, "EUs", 0, "", 15},
	{"NVIDIA GTX 1660 Super", 1408, "CUDA cores", 6, "GDDR6", 125},
	{"NVIDIA RTX 3060", 3584, "CUDA cores", 12, "GDDR6", 170},
	{"NVIDIA RTX 4070", 5888, "CUDA cores", 12, "GDDR6X", 200},
	{"NVIDIA RTX 4080", 9728, "CUDA cores", 16, "GDDR6X", 320},
	{"NVIDIA RTX 4090", 16384, "CUDA cores", 24, "GDDR6X", 450},
	{"AMD Radeon RX 7800 XT", 60, "CUs", 16, "GDDR6", 263},
	{"AMD Radeon RX 7900 XTX", 96, "CUs", 24, "GDDR6", 355},
}

var psus = []PSU{
	{450, "Bronze"},
	{550, "Bronze"},
	{650, "Gold"},
	{750, "Gold"},
	{850, "Gold"},
	{1000, "Platinum"},
	{1200, "Titanium"},
}

// CPUs returns a copy of the processor table
func CPUs() []CPU { return append([]CPU(nil), cpus...) }

// RAMs returns a copy of the memory table
func RAMs() []RAM { return append([]RAM(nil), rams...) }

// Storages returns a copy of the storage table
func Storages() []Storage { return append([]Storage(nil), storages...) }

// GPUs returns a copy of the graphics table
func GPUs() []GPU { return append([]GPU(nil), gpus...) }

// PSUs returns a copy of the power supply table
func PSUs() []PSU { return append([]PSU(nil), psus...) }

// Listing is the full catalog rendered as labels, for pickers
type Listing struct {
	CPU     []string            `json:"cpu"`
	RAM     []string            `json:"ram"`
	Storage []string            `json:"storage"`
	GPU     []string            `json:"gpu"`
	PSU     []string            `json:"psu"`
	OS      map[string][]string `json:"os"`
}

// List renders every table as labels
func List() Listing {
	l := Listing{OS: map[string][]string{
		"windows": WindowsEditions(),
		"linux":   LinuxDistros(),
	}}
	for _, c := range cpus {
		l.CPU = append(l.CPU, c.Label())
	}
	for _, r := range rams {
		l.RAM = append(l.RAM, r.Label())
	}
	for _, s := range storages {
		l.Storage = append(l.Storage, s.Label())
	}
	for _, g := range gpus {
		l.GPU = append(l.GPU, g.Label())
	}
	for _, p := range psus {
		l.PSU = append(l.PSU, p.Label())
	}
	return l
}

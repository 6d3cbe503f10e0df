// Package aggregate summarises the hardware of every computer in a lab.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"buildlab/internal/catalog"
	"buildlab/internal/domain"
)

// Entry is one computer's contribution to the aggregate
type Entry struct {
	ID       string
	Hardware *domain.HardwareSpec
}

// Specs is the fleet-level summary
type Specs struct {
	PCCount           int     `json:"pc_count"`
	TotalCores        int     `json:"total_cores"`
	TotalThreads      int     `json:"total_threads"`
	TotalRAMGB        int     `json:"total_ram_gb"`
	BestRAMGeneration int     `json:"best_ram_generation,omitempty"`
	TotalStorageGB    int     `json:"total_storage_gb"`
	TotalStorageTB    float64 `json:"total_storage_tb,omitempty"` // set above 1024GB
	BestStorageType   string  `json:"best_storage_type,omitempty"`
	TotalComputeUnits int     `json:"total_compute_units"`
	TotalVRAMGB       int     `json:"total_vram_gb"`
	Empty             bool    `json:"empty"`
}

// Compute sums the hardware of every entry. Entries without hardware are
// skipped; when none has hardware the result is Empty.
func Compute(entries []Entry) Specs {
	specs := Specs{}
	best := catalog.StorageUnknown

	for _, e := range entries {
		if e.Hardware == nil {
			continue
		}
		specs.PCCount++

		cpu := catalog.ParseCPU(e.Hardware.CPU)
		specs.TotalCores += cpu.Cores
		specs.TotalThreads += cpu.Threads

		ram := catalog.ParseRAM(e.Hardware.RAM)
		specs.TotalRAMGB += ram.CapacityGB
		specs.BestRAMGeneration = max(specs.BestRAMGeneration, ram.Generation)

		st := catalog.ParseStorage(e.Hardware.Storage)
		specs.TotalStorageGB += st.CapacityGB
		best = max(best, st.Type)

		gpu := catalog.ParseGPU(e.Hardware.GPU)
		specs.TotalComputeUnits += gpu.ComputeUnits
		specs.TotalVRAMGB += gpu.VRAMGB
	}

	if specs.PCCount == 0 {
		return Specs{Empty: true}
	}
	if specs.TotalStorageGB > 1024 {
		specs.TotalStorageTB = float64(specs.TotalStorageGB) / 1024
	}
	if best != catalog.StorageUnknown {
		specs.BestStorageType = best.String()
	}
	return specs
}

// StorageDisplay renders total storage in GB, or TB above 1024GB
func (s Specs) StorageDisplay() string {
	if s.TotalStorageTB > 0 {
		return humanize.FormatFloat("#.#", s.TotalStorageTB) + " TB"
	}
	return fmt.Sprintf("%d GB", s.TotalStorageGB)
}

// Summary renders a one-line description of the fleet
func (s Specs) Summary() string {
	if s.Empty {
		return "no computers with hardware"
	}

	parts := []string{
		english.Plural(s.PCCount, "PC", "PCs"),
		fmt.Sprintf("%s cores / %s threads", humanize.Comma(int64(s.TotalCores)), humanize.Comma(int64(s.TotalThreads))),
	}

	ram := fmt.Sprintf("%d GB RAM", s.TotalRAMGB)
	if s.BestRAMGeneration > 0 {
		ram = fmt.Sprintf("%d GB DDR%d", s.TotalRAMGB, s.BestRAMGeneration)
	}
	parts = append(parts, ram)

	storage := s.StorageDisplay()
	if s.BestStorageType != "" {
		storage += " " + s.BestStorageType
	}
	parts = append(parts, storage)

	parts = append(parts, fmt.Sprintf("%s compute units, %d GB VRAM", humanize.Comma(int64(s.TotalComputeUnits)), s.TotalVRAMGB))
	return strings.Join(parts, ", ")
}

package scoring

import (
	"buildlab/internal/catalog"
	"buildlab/internal/domain"
)

// BoardOverheadWatts covers motherboard, fans and peripherals
const BoardOverheadWatts = 50

// Budget compares estimated draw with the PSU rating
type Budget struct {
	DrawWatts     int  `json:"draw_watts"`
	CapacityWatts int  `json:"capacity_watts"`
	Headroom      int  `json:"headroom"`
	Sufficient    bool `json:"sufficient"`
}

// PowerBudget estimates total draw from the wattage embedded in each
// component string
func PowerBudget(hw domain.HardwareSpec) Budget {
	draw := catalog.ParseCPU(hw.CPU).Watts +
		catalog.ParseRAM(hw.RAM).Watts +
		catalog.ParseStorage(hw.Storage).Watts +
		catalog.ParseGPU(hw.GPU).Watts +
		BoardOverheadWatts
	capacity := catalog.ParsePSU(hw.PSU).Watts

	return Budget{
		DrawWatts:     draw,
		CapacityWatts: capacity,
		Headroom:      capacity - draw,
		Sufficient:    capacity >= draw,
	}
}

package scoring

import (
	"testing"
)

func TestPowerBudget(t *testing.T) {
	t.Run("reference build fits a 750W supply", func(t *testing.T) {
		b := PowerBudget(referenceHardware)
		// 253 + 20 + 10 + 200 + 50
		if b.DrawWatts != 533 {
			t.Errorf("expected 533W draw, got %d", b.DrawWatts)
		}
		if b.CapacityWatts != 750 {
			t.Errorf("expected 750W capacity, got %d", b.CapacityWatts)
		}
		if !b.Sufficient || b.Headroom != 217 {
			t.Errorf("expected 217W headroom, got %+v", b)
		}
	})

	t.Run("undersized supply", func(t *testing.T) {
		hw := referenceHardware
		hw.GPU = "NVIDIA RTX 4090 (16384 CUDA cores, 24GB GDDR6X) 450W"
		hw.PSU = "550W 80+ Bronze"
		b := PowerBudget(hw)
		if b.Sufficient {
			t.Errorf("expected insufficient budget, got %+v", b)
		}
		if b.Headroom >= 0 {
			t.Errorf("expected negative headroom, got %d", b.Headroom)
		}
	})
}

package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"buildlab/internal/catalog"
)

// Rule pairs a predicate over a component string with the score it awards
type Rule struct {
	Name  string
	Match func(spec string) bool
	Score int
}

// Table is an ordered rule list; the first matching rule wins
type Table struct {
	Rules    []Rule
	Fallback int
}

// Evaluate returns the score of the first matching rule, or the fallback
func (t Table) Evaluate(spec string) int {
	if r, ok := t.Match(spec); ok {
		return r.Score
	}
	return t.Fallback
}

// Match returns the first rule matching spec
func (t Table) Match(spec string) (Rule, bool) {
	for _, r := range t.Rules {
		if r.Match(spec) {
			return r, true
		}
	}
	return Rule{}, false
}

// containsAll matches when every needle occurs in spec, ignoring case
func containsAll(needles ...string) func(string) bool {
	return func(spec string) bool {
		lower := strings.ToLower(spec)
		for _, n := range needles {
			if !strings.Contains(lower, n) {
				return false
			}
		}
		return true
	}
}

// containsAny matches when at least one needle occurs in spec, ignoring case
func containsAny(needles ...string) func(string) bool {
	return func(spec string) bool {
		lower := strings.ToLower(spec)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
		return false
	}
}

// CPUTable scores processors by product tier
var CPUTable = Table{
	Rules: []Rule{
		{"workstation", containsAny("threadripper", "epyc", "xeon"), 98},
		{"tier 9", containsAny("core i9", "ryzen 9"), 95},
		{"tier 7", containsAny("core i7", "ryzen 7"), 85},
		{"tier 5", containsAny("core i5", "ryzen 5"), 72},
		{"tier 3", containsAny("core i3", "ryzen 3"), 55},
		{"entry", containsAny("celeron", "pentium", "athlon"), 35},
	},
	Fallback: 50,
}

// RAMTable scores memory by capacity and generation. Larger capacities are
// listed first so a string naming several sizes scores the largest, and
// DDR5 variants come before the plain capacity rule they overlap with.
var RAMTable = Table{
	Rules: []Rule{
		{"128GB", capacityGB(128), 100},
		{"64GB", capacityGB(64), 95},
		{"32GB DDR5", both(capacityGB(32), containsAny("ddr5")), 92},
		{"32GB", capacityGB(32), 85},
		{"16GB DDR5", both(capacityGB(16), containsAny("ddr5")), 75},
		{"16GB", capacityGB(16), 68},
		{"8GB", capacityGB(8), 45},
		{"4GB", capacityGB(4), 25},
	},
	Fallback: 40,
}

// capacityGB matches "<gb>GB" only when the number is not the tail of a
// longer one, so 8GB does not match "48GB"
func capacityGB(gb int) func(string) bool {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(?:^|[^\d])%d\s*GB`, gb)).MatchString
}

func both(a, b func(string) bool) func(string) bool {
	return func(spec string) bool { return a(spec) && b(spec) }
}

// StorageTable scores drives by technology; fast NVMe is checked before
// plain NVMe, which is checked before SSD since NVMe labels say "SSD" too.
var StorageTable = Table{
	Rules: []Rule{
		{"NVMe 6000MB/s+", fastNVMe, 95},
		{"NVMe", containsAny("nvme"), 85},
		{"SSD", containsAny("ssd"), 72},
		{"HDD", containsAny("hdd", "rpm"), 40},
	},
	Fallback: 50,
}

func fastNVMe(spec string) bool {
	st := catalog.ParseStorage(spec)
	return st.Type == catalog.StorageNVMe && st.ReadMBps >= 6000
}

// GPUTable scores graphics cards by model family
var GPUTable = Table{
	Rules: []Rule{
		{"RTX 4090", containsAny("rtx 4090"), 100},
		{"RTX 4080", containsAny("rtx 4080"), 95},
		{"RX 7900", containsAny("rx 7900"), 93},
		{"RTX 4070", containsAny("rtx 4070"), 88},
		{"RX 7800", containsAny("rx 7800"), 85},
		{"RTX 30", containsAny("rtx 30"), 78},
		{"RTX", containsAny("rtx"), 75},
		{"GTX", containsAny("gtx"), 58},
		{"integrated", containsAny("uhd", "iris", "integrated", "vega"), 30},
	},
	Fallback: 40,
}

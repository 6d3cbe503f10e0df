package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	coresPattern    = regexp.MustCompile(`(?i)(\d+)[\s-]*cores?\b`)
	threadsPattern  = regexp.MustCompile(`(?i)(\d+)[\s-]*threads?\b`)
	wattsPattern    = regexp.MustCompile(`(?i)(\d+)\s*W\b`)
	gbPattern       = regexp.MustCompile(`(?i)(\d+)\s*GB\b`)
	ddrPattern      = regexp.MustCompile(`(?i)DDR(\d)`)
	mhzPattern      = regexp.MustCompile(`(?i)(\d+)\s*MHz`)
	capacityPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(TB|GB)\b`)
	mbpsPattern     = regexp.MustCompile(`(?i)(\d+)\s*MB/s`)
	unitsPattern    = regexp.MustCompile(`(?i)(\d+)\s*(CUDA cores|CUs|EUs|compute units|stream processors)`)
)

// LookupCPU returns the catalog entry whose label equals s
func LookupCPU(s string) (CPU, bool) {
	for _, c := range cpus {
		if c.Label() == s {
			return c, true
		}
	}
	return CPU{}, false
}

// LookupRAM returns the catalog entry whose label equals s
func LookupRAM(s string) (RAM, bool) {
	for _, r := range rams {
		if r.Label() == s {
			return r, true
		}
	}
	return RAM{}, false
}

// LookupStorage returns the catalog entry whose label equals s
func LookupStorage(s string) (Storage, bool) {
	for _, st := range storages {
		if st.Label() == s {
			return st, true
		}
	}
	return Storage{}, false
}

// LookupGPU returns the catalog entry whose label equals s
func LookupGPU(s string) (GPU, bool) {
	for _, g := range gpus {
		if g.Label() == s {
			return g, true
		}
	}
	return GPU{}, false
}

// ParseCPU resolves a processor string, preferring the catalog entry and
// falling back to the attributes embedded in the text. Threads default to
// the core count when not stated.
func ParseCPU(s string) CPU {
	if c, ok := LookupCPU(s); ok {
		return c
	}
	c := CPU{Name: s, Watts: ParseWatts(s)}
	c.Cores = firstInt(coresPattern, s)
	c.Threads = firstInt(threadsPattern, s)
	if c.Threads == 0 {
		c.Threads = c.Cores
	}
	return c
}

// ParseRAM resolves a memory string. The first "<n>GB" is the capacity.
func ParseRAM(s string) RAM {
	if r, ok := LookupRAM(s); ok {
		return r
	}
	return RAM{
		CapacityGB: firstInt(gbPattern, s),
		Generation: firstInt(ddrPattern, s),
		SpeedMHz:   firstInt(mhzPattern, s),
		Watts:      ParseWatts(s),
	}
}

// ParseStorage resolves a drive string. Capacities in TB are converted to GB.
func ParseStorage(s string) Storage {
	if st, ok := LookupStorage(s); ok {
		return st
	}
	st := Storage{
		Type:     ParseStorageType(s),
		ReadMBps: firstInt(mbpsPattern, s),
		Watts:    ParseWatts(s),
	}
	if m := capacityPattern.FindStringSubmatch(s); m != nil {
		size, _ := strconv.ParseFloat(m[1], 64)
		if strings.EqualFold(m[2], "TB") {
			size *= 1024
		}
		st.CapacityGB = int(size)
	}
	return st
}

// ParseStorageType classifies a drive string, fastest technology first
func ParseStorageType(s string) StorageType {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "nvme"):
		return StorageNVMe
	case strings.Contains(lower, "ssd"):
		return StorageSSD
	case strings.Contains(lower, "hdd"), strings.Contains(lower, "rpm"):
		return StorageHDD
	}
	return StorageUnknown
}

// ParseGPU resolves a graphics string
func ParseGPU(s string) GPU {
	if g, ok := LookupGPU(s); ok {
		return g
	}
	g := GPU{Name: s, Watts: ParseWatts(s), VRAMGB: firstInt(gbPattern, s)}
	if m := unitsPattern.FindStringSubmatch(s); m != nil {
		g.ComputeUnits, _ = strconv.Atoi(m[1])
		g.UnitName = m[2]
	}
	return g
}

// ParsePSU resolves a power supply string. The first wattage is the rating.
func ParsePSU(s string) PSU {
	p := PSU{Watts: firstInt(wattsPattern, s)}
	for _, rating := range []string{"Titanium", "Platinum", "Gold", "Silver", "Bronze"} {
		if strings.Contains(strings.ToLower(s), strings.ToLower(rating)) {
			p.Rating = rating
			break
		}
	}
	return p
}

// ParseWatts returns the last "<n>W" figure in s, or 0
func ParseWatts(s string) int {
	matches := wattsPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(matches[len(matches)-1][1])
	return n
}

func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

package netcfg

import (
	"math/bits"

	"buildlab/internal/domain"
)

// AutoAssign returns a copy of base with an IP picked inside the gateway's
// subnet. The first candidate is host number firstHost; the network
// address, broadcast address, gateway and every address in used are
// skipped. Malformed base fields fall back to defaults.
func AutoAssign(base, defaults domain.NetworkConfig, used []string, firstHost int) domain.NetworkConfig {
	out := domain.NetworkConfig{
		SubnetMask: pick(base.SubnetMask, defaults.SubnetMask, "255.255.255.0"),
		Gateway:    pick(base.Gateway, defaults.Gateway, "192.168.1.1"),
		DNS:        pick(base.DNS, defaults.DNS, "8.8.8.8"),
	}

	mask, _ := ParseQuad(out.SubnetMask)
	gateway, _ := ParseQuad(out.Gateway)

	taken := make(map[uint32]bool, len(used)+1)
	taken[gateway.Uint32()] = true
	for _, u := range used {
		if q, ok := ParseQuad(u); ok {
			taken[q.Uint32()] = true
		}
	}

	network := gateway.Mask(mask).Uint32()
	hostMask := ^mask.Uint32()

	// Host numbers are deposited into the bits the mask leaves free, so
	// non-contiguous masks still yield addresses inside the subnet. Host 0
	// is the network address and the all-ones host is the broadcast.
	hosts := uint64(1) << bits.OnesCount32(hostMask)
	usable := hosts - 2

	if firstHost < 1 {
		firstHost = 1
	}
	start := uint64(firstHost)
	if start > usable {
		start = 1
	}

	// A /31 or /32 has no usable host range; the gateway itself is
	// returned so the result still validates.
	if hosts < 3 {
		out.IP = gateway.String()
		return out
	}
	out.IP = QuadFromUint32(network).String()
	for i := uint64(0); i < usable; i++ {
		host := (start-1+i)%usable + 1
		candidate := network | deposit(host, hostMask)
		if taken[candidate] {
			continue
		}
		out.IP = QuadFromUint32(candidate).String()
		return out
	}
	return out
}

// deposit spreads the low bits of n over the set bits of mask, lowest
// first
func deposit(n uint64, mask uint32) uint32 {
	var out uint32
	for bit := uint32(1); bit != 0 && n != 0; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		if n&1 != 0 {
			out |= bit
		}
		n >>= 1
	}
	return out
}

func pick(values ...string) string {
	for _, v := range values {
		if IsDottedQuad(v) {
			return v
		}
	}
	return values[len(values)-1]
}

// Package netcfg validates IPv4 network configurations and synthesizes
// addresses for the automatic mode.
package netcfg

import (
	"strconv"
	"strings"

	"buildlab/internal/domain"
)

// Quad is a parsed dotted-quad address
type Quad [4]uint8

func (q Quad) String() string {
	return strconv.Itoa(int(q[0])) + "." + strconv.Itoa(int(q[1])) + "." +
		strconv.Itoa(int(q[2])) + "." + strconv.Itoa(int(q[3]))
}

// Uint32 returns the address as a big-endian integer
func (q Quad) Uint32() uint32 {
	return uint32(q[0])<<24 | uint32(q[1])<<16 | uint32(q[2])<<8 | uint32(q[3])
}

// QuadFromUint32 is the inverse of Quad.Uint32
func QuadFromUint32(v uint32) Quad {
	return Quad{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// Mask applies mask octet-wise
func (q Quad) Mask(mask Quad) Quad {
	return Quad{q[0] & mask[0], q[1] & mask[1], q[2] & mask[2], q[3] & mask[3]}
}

// ParseQuad parses four dot-separated integers in [0,255]. The input must
// re-serialize to itself, so "01" or "+1" are rejected.
func ParseQuad(s string) (Quad, bool) {
	var q Quad
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return q, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return q, false
		}
		q[i] = uint8(n)
	}
	if q.String() != s {
		return q, false
	}
	return q, true
}

// IsDottedQuad reports whether s is a well-formed IPv4 dotted quad
func IsDottedQuad(s string) bool {
	_, ok := ParseQuad(s)
	return ok
}

// SameSubnet reports whether a and b share a network prefix under mask
func SameSubnet(a, b, mask Quad) bool {
	return a.Mask(mask) == b.Mask(mask)
}

// Validate checks every field and the subnet relation between ip and
// gateway. Fields are checked in the order ip, subnet_mask, gateway, dns.
func Validate(cfg domain.NetworkConfig) error {
	fields := []struct {
		name  string
		value string
	}{
		{"ip", cfg.IP},
		{"subnet_mask", cfg.SubnetMask},
		{"gateway", cfg.Gateway},
		{"dns", cfg.DNS},
	}

	quads := make([]Quad, len(fields))
	for i, f := range fields {
		q, ok := ParseQuad(f.value)
		if !ok {
			return &domain.InvalidNetworkConfigError{
				Field:  f.name,
				Reason: domain.ReasonMalformed,
				Value:  f.value,
			}
		}
		quads[i] = q
	}

	ip, mask, gateway := quads[0], quads[1], quads[2]
	if !SameSubnet(ip, gateway, mask) {
		return &domain.InvalidNetworkConfigError{
			Field:  "ip",
			Reason: domain.ReasonSubnetMismatch,
			Value:  cfg.IP,
		}
	}
	return nil
}

// IsValidConfig is the boolean form of Validate
func IsValidConfig(cfg domain.NetworkConfig) bool {
	return Validate(cfg) == nil
}

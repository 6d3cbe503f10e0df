package domain

import (
	"fmt"
	"strings"
)

// NodeKind represents the kind of module placed on the canvas
type NodeKind string

const (
	KindComputer NodeKind = "computer"
	KindDisplay  NodeKind = "display"
	KindRouter   NodeKind = "router"
)

// Kinds lists every node kind in canonical order
var Kinds = []NodeKind{KindComputer, KindDisplay, KindRouter}

// Valid reports whether k is a known node kind
func (k NodeKind) Valid() bool {
	switch k {
	case KindComputer, KindDisplay, KindRouter:
		return true
	}
	return false
}

// LabelPrefix returns the human-readable id prefix for generated ids
func (k NodeKind) LabelPrefix() string {
	switch k {
	case KindComputer:
		return "PC"
	case KindDisplay:
		return "MON"
	case KindRouter:
		return "RTR"
	}
	return "NODE"
}

// TargetPhase is the phase a node of this kind must reach to count as configured
func (k NodeKind) TargetPhase() Phase {
	switch k {
	case KindComputer:
		return PhaseHardwareSet
	case KindDisplay:
		return PhaseOSSet
	case KindRouter:
		return PhaseNetworkSet
	}
	return PhaseUnconfigured
}

// ParseNodeKind parses a kind name, accepting the id prefixes as aliases
func ParseNodeKind(s string) (NodeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "computer", "pc":
		return KindComputer, nil
	case "display", "monitor", "mon":
		return KindDisplay, nil
	case "router", "rtr":
		return KindRouter, nil
	}
	return "", fmt.Errorf("unknown node kind %q", s)
}

// Phase is a node's position in its provisioning lifecycle
type Phase string

const (
	PhaseUnconfigured Phase = "unconfigured"
	PhaseHardwareSet  Phase = "hardware_set"
	PhaseOSSet        Phase = "os_set"
	PhaseNetworkSet   Phase = "network_set"
)

// Node represents a module placed on the topology canvas
type Node struct {
	ID         string   `json:"id"`
	Kind       NodeKind `json:"kind"`
	Position   Position `json:"position"`
	Phase      Phase    `json:"phase"`
	Configured bool     `json:"configured"`

	// LinkedComputer is the computer a display or router was last
	// configured against. Empty for computers.
	LinkedComputer string `json:"linked_computer,omitempty"`
}

// NewNode creates an unconfigured node
func NewNode(id string, kind NodeKind, pos Position) *Node {
	return &Node{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Phase:    PhaseUnconfigured,
	}
}

// Advance moves the node into phase and refreshes the configured flag
func (n *Node) Advance(phase Phase) {
	n.Phase = phase
	n.Configured = phase == n.Kind.TargetPhase()
}

// Reset returns the node to its unconfigured state
func (n *Node) Reset() {
	n.Phase = PhaseUnconfigured
	n.Configured = false
	n.LinkedComputer = ""
}

// IsComputer reports whether the node is a computer
func (n *Node) IsComputer() bool {
	return n.Kind == KindComputer
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below
var (
	ErrUnknownNode          = errors.New("unknown node")
	ErrSelfLoop             = errors.New("cable endpoints must differ")
	ErrDuplicateID          = errors.New("duplicate node id")
	ErrPrerequisiteNotMet   = errors.New("prerequisite not met")
	ErrInvalidNetworkConfig = errors.New("invalid network configuration")
	ErrWrongKind            = errors.New("wrong node kind")
	ErrUnknownCable         = errors.New("unknown cable")
)

// UnknownNodeError is returned when an intent references a missing node
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node %s not found", e.ID)
}

func (e *UnknownNodeError) Is(target error) bool { return target == ErrUnknownNode }

// UnknownCableError is returned when a cable id does not exist
type UnknownCableError struct {
	ID string
}

func (e *UnknownCableError) Error() string {
	return fmt.Sprintf("cable %s not found", e.ID)
}

func (e *UnknownCableError) Is(target error) bool { return target == ErrUnknownCable }

// SelfLoopError is returned when a cable would connect a node to itself
type SelfLoopError struct {
	ID string
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("cannot connect %s to itself", e.ID)
}

func (e *SelfLoopError) Is(target error) bool { return target == ErrSelfLoop }

// DuplicateIDError is returned when a caller-supplied id is already taken
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("node id %s already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// PrerequisiteNotMetError reports a refused transition. It is a warning
// for the user, not a fault: no state was written.
type PrerequisiteNotMetError struct {
	NodeID string
	Phase  Phase
	Reason string
}

func (e *PrerequisiteNotMetError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.NodeID, e.Phase, e.Reason)
}

func (e *PrerequisiteNotMetError) Is(target error) bool { return target == ErrPrerequisiteNotMet }

// NetworkReason distinguishes malformed fields from a subnet mismatch
type NetworkReason string

const (
	ReasonMalformed      NetworkReason = "malformed"
	ReasonSubnetMismatch NetworkReason = "subnet_mismatch"
)

// InvalidNetworkConfigError names the offending field and why it was rejected
type InvalidNetworkConfigError struct {
	Field  string
	Reason NetworkReason
	Value  string
}

func (e *InvalidNetworkConfigError) Error() string {
	if e.Reason == ReasonSubnetMismatch {
		return fmt.Sprintf("invalid %s %q: IP not in gateway's subnet", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: expected four dot-separated numbers 0-255", e.Field, e.Value)
}

func (e *InvalidNetworkConfigError) Is(target error) bool { return target == ErrInvalidNetworkConfig }

// WrongKindError is returned when an intent targets a node of the wrong kind
type WrongKindError struct {
	NodeID string
	Got    NodeKind
	Want   NodeKind
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("node %s is a %s, expected a %s", e.NodeID, e.Got, e.Want)
}

func (e *WrongKindError) Is(target error) bool { return target == ErrWrongKind }

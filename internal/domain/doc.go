// Package domain defines the core types of the build lab: the modules a
// student places on the canvas, the cables between them, and the
// configuration each computer accumulates as it is provisioned.
//
// # Core Types
//
// Node is a placed module (computer, display or router) with a canvas
// position and a provisioning Phase. Each kind has its own minimal
// lifecycle; see NodeKind.TargetPhase.
//
// Cable connects two nodes. Its kind (power or ethernet) is inferred from
// the endpoint kinds when the cable is drawn.
//
// ComputerConfig is owned by a computer node and bundles the installed
// HardwareSpec, OSConfig, NetworkConfig and the derived PerformanceMetrics.
//
// # Errors
//
// Every rejected intent is reported with a typed error (UnknownNodeError,
// SelfLoopError, PrerequisiteNotMetError, InvalidNetworkConfigError, ...).
// Each one matches a package sentinel through errors.Is.
//
// # Design Principles
//
// - No dependencies outside the standard library
// - Value types that can be copied into read-only snapshots
package domain

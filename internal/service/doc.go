// Package service implements the provisioning lab: the state machine that
// moves nodes through their configuration phases, on top of the topology
// store, the scoring engine and the aggregate.
//
// # Lab
//
// Lab is the single entry point for intents. Every intent runs to
// completion before it returns: the topology or configuration is mutated,
// metrics are recomputed, the aggregate is invalidated and an activity line
// is appended. A refused intent writes no state but still produces an
// activity line and a warning log record.
//
// # Gates
//
// Computers take hardware at any time. A display installs an operating
// system onto the computer it resolves to, which must have hardware. A
// router configures the network of a computer it can reach, and at least
// one computer must have an operating system. Reconfiguring a node always
// replaces the previous configuration.
//
// # Event System
//
// Labs publish events via EventBus after each intent. The server fans them
// out to browsers over Server-Sent Events, tagged with the session id.
//
// # Concurrency
//
// A Lab is not safe for concurrent use. Hosted labs are serialized by the
// session package.
package service

// Package handler implements the HTTP JSON API over hosted lab sessions.
//
// # Handlers
//
// LabHandler maps every lab intent and read to a route under
// /api/sessions/{sid}. Each request runs against its session's lab under
// the session lock, so intents apply one at a time.
//
// Middleware provides panic recovery, CORS, request logging and request
// metrics.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for configuration
// - DELETE for removal
//
// Request bodies are decoded strictly and checked with struct tags before
// they reach the lab. Lab errors map to status codes by kind: unknown nodes
// and cables are 404, refused transitions and id collisions are 409, and
// everything else the caller can fix is 400.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /events endpoint streams lab events. Pass ?session={sid} to follow a
// single session.
package handler

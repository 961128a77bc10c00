// Package georef is a typed client for a key-authenticated georeferencing web
// service whose JSON wire format evolved from XML. It builds parameterized GET
// requests, executes them with bounded exponential-backoff retries, and hands
// back the normalized response node nested under the service's root wrapper.
//
// Failure taxonomy
//   - Transient: connection errors, non-2xx statuses, undecodable bodies.
//     Retried up to the configured attempt budget.
//   - Structural: the body decoded but the mandatory root wrapper is missing.
//     Never retried.
//   - Domain: the service answered with a structured error node. Never
//     retried; the code "30006" means "no results" and is checked through
//     IsNoResults rather than treated as a failure.
//   - Validation: malformed inputs, surfaced before anything hits the wire.
//
// Per-service parameter builders and model mapping live on top of this core;
// see the geocode package for a typed example.
package georef

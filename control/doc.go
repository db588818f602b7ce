// Package control
// Author: momentics <momentics@gmail.com>
//
// Operational surface around the engine: TOML configuration files,
// Prometheus export of engine counters and named debug probes.
//
// Nothing here runs on the event loop goroutine. Metrics and probes read the
// engine's atomic counters on demand.
package control

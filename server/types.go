// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Engine configuration and validation.

package server

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/momentics/hioload-fix/api"
)

// Config holds all engine configuration parameters. MaxConnections and
// BufferSize fix the memory footprint (MaxConnections × BufferSize) at New.
type Config struct {
	Host             string        // IPv4 bind address, "" or "0.0.0.0" for any
	Port             int           // TCP port, 0 picks an ephemeral port
	MaxConnections   int           // slot table size; further connections are rejected
	MaxEvents        int           // readiness events fetched per wait
	BufferSize       int           // per-connection buffer capacity in bytes
	MaxFDs           int           // descriptor index size; larger descriptors are rejected
	Backlog          int           // listen(2) backlog
	PollTimeout      time.Duration // readiness wait timeout, bounds Stop latency
	MaxReadsPerEvent int           // reads per descriptor per round, 0 drains fully
	ReusePort        bool          // set SO_REUSEPORT on the listener
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             9878,
		MaxConnections:   4096,
		MaxEvents:        1024,
		BufferSize:       64 * 1024,
		MaxFDs:           65536,
		Backlog:          128,
		PollTimeout:      time.Second,
		MaxReadsPerEvent: 0,
	}
}

// Validate reports every invalid field; the result wraps api.ErrInvalidConfig.
func (c Config) Validate() error {
	var result *multierror.Error
	invalid := func(err error) {
		result = multierror.Append(result, err)
	}
	if c.Port < 0 || c.Port > 65535 {
		invalid(fmt.Errorf("%w: port %d out of range", api.ErrInvalidConfig, c.Port))
	}
	if c.MaxConnections <= 0 {
		invalid(fmt.Errorf("%w: max_connections must be positive, got %d", api.ErrInvalidConfig, c.MaxConnections))
	}
	if c.MaxEvents <= 0 {
		invalid(fmt.Errorf("%w: max_events must be positive, got %d", api.ErrInvalidConfig, c.MaxEvents))
	}
	if c.BufferSize <= 0 {
		invalid(fmt.Errorf("%w: buffer_size must be positive, got %d", api.ErrInvalidConfig, c.BufferSize))
	}
	if c.MaxFDs <= 0 {
		invalid(fmt.Errorf("%w: max_fds must be positive, got %d", api.ErrInvalidConfig, c.MaxFDs))
	}
	if c.Backlog <= 0 {
		invalid(fmt.Errorf("%w: backlog must be positive, got %d", api.ErrInvalidConfig, c.Backlog))
	}
	if c.PollTimeout < time.Millisecond {
		invalid(fmt.Errorf("%w: poll_timeout must be at least 1ms, got %s", api.ErrInvalidConfig, c.PollTimeout))
	}
	if c.MaxReadsPerEvent < 0 {
		invalid(fmt.Errorf("%w: max_reads_per_event must not be negative, got %d", api.ErrInvalidConfig, c.MaxReadsPerEvent))
	}
	return result.ErrorOrNil()
}

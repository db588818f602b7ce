// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-fix/api"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Option customizes server initialization.
type Option func(*Server)

// WithLogger sets the logger used by the event loop.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMiddleware attaches frame middleware in FIFO order.
func WithMiddleware(mw ...api.Middleware) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithWarnRate bounds how often rejected and overflowing connections are
// logged at warn level. Counters are kept regardless.
func WithWarnRate(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		s.warn = rate.NewLimiter(limit, burst)
	}
}

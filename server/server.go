// File: server/server.go
// Package server provides the single-threaded epoll engine that accepts TCP
// connections, reassembles FIX frames per connection and hands every complete
// frame to an api.FrameHandler.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-fix/api"
	"github.com/momentics/hioload-fix/pool"
	"github.com/momentics/hioload-fix/reactor"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Server owns the listening socket, the readiness reactor and the fixed
// connection registry. All connection state is touched only by the goroutine
// running Start; Stop, Stats, Addr and Capacity are safe from any goroutine.
type Server struct {
	cfg        Config
	log        zerolog.Logger
	warn       *rate.Limiter
	middleware []api.Middleware

	// Loop-owned state, allocated once in New.
	conns   *pool.Registry
	events  []reactor.Event
	scratch []byte
	queued  []bool // per slot: sitting on the pending list
	pending []int  // descriptors with read budget exhausted
	spare   []int

	handler     api.FrameHandler
	observer    api.ConnObserver
	retryAccept bool

	mu     sync.Mutex // guards listener setup
	lfd    int
	addr   *net.TCPAddr
	poller reactor.EventReactor

	running  atomic.Bool
	stopping atomic.Bool

	stats counters
}

type counters struct {
	accepted   atomic.Uint64
	rejected   atomic.Uint64
	active     atomic.Int64
	frames     atomic.Uint64
	bytesRead  atomic.Uint64
	peerClosed atomic.Uint64
	readErrors atomic.Uint64
	overflows  atomic.Uint64
	hangups    atomic.Uint64
}

// New validates cfg and allocates all memory the engine will use:
// the slot arena, descriptor index, free list, event array and read scratch.
func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		log:     zerolog.Nop(),
		warn:    rate.NewLimiter(rate.Every(time.Second), 5),
		conns:   pool.NewRegistry(cfg.MaxConnections, cfg.BufferSize, cfg.MaxFDs),
		events:  make([]reactor.Event, cfg.MaxEvents),
		scratch: make([]byte, cfg.BufferSize),
		queued:  make([]bool, cfg.MaxConnections),
		pending: make([]int, 0, cfg.MaxConnections),
		spare:   make([]int, 0, cfg.MaxConnections),
		lfd:     -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the configuration the server was built with.
func (s *Server) Config() Config { return s.cfg }

// Addr returns the bound listening address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return nil
	}
	return s.addr
}

// Capacity returns the number of connection slots.
func (s *Server) Capacity() int { return s.cfg.MaxConnections }

// Stats returns a snapshot of the engine counters.
func (s *Server) Stats() api.Stats {
	active := s.stats.active.Load()
	if active < 0 {
		active = 0
	}
	return api.Stats{
		Accepted:   s.stats.accepted.Load(),
		Rejected:   s.stats.rejected.Load(),
		Active:     uint64(active),
		Frames:     s.stats.frames.Load(),
		BytesRead:  s.stats.bytesRead.Load(),
		PeerClosed: s.stats.peerClosed.Load(),
		ReadErrors: s.stats.readErrors.Load(),
		Overflows:  s.stats.overflows.Load(),
		Hangups:    s.stats.hangups.Load(),
	}
}

// Probes returns named read-only state probes suitable for
// control.DebugProbes registration.
func (s *Server) Probes() map[string]func() any {
	return map[string]func() any{
		"slots.capacity": func() any { return s.cfg.MaxConnections },
		"slots.in_use":   func() any { return s.Stats().Active },
		"slots.free":     func() any { return uint64(s.cfg.MaxConnections) - s.Stats().Active },
		"buffer.size":    func() any { return s.cfg.BufferSize },
		"running":        func() any { return s.running.Load() && !s.stopping.Load() },
	}
}

var _ api.StatsSource = (*Server)(nil)

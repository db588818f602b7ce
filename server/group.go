// File: server/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Group shards connections across several independent engines that share one
// port through SO_REUSEPORT. The kernel spreads incoming connections over the
// listeners; every shard keeps its own slot table and loop goroutine, so no
// connection state is shared and nothing is locked.

package server

import (
	"fmt"
	"net"

	"github.com/hashicorp/go-multierror"
	"github.com/momentics/hioload-fix/api"
	"golang.org/x/sync/errgroup"
)

// HandlerFactory builds the frame handler for one shard. Each handler is only
// ever called from its shard's loop goroutine.
type HandlerFactory func(shard int) api.FrameHandler

// Shared returns a factory handing the same handler to every shard; h must
// then be safe for concurrent use.
func Shared(h api.FrameHandler) HandlerFactory {
	return func(int) api.FrameHandler { return h }
}

// Group runs N Servers on the same address.
type Group struct {
	servers []*Server
}

// NewGroup builds shards engines from cfg. ReusePort is forced on and
// MaxConnections applies per shard.
func NewGroup(cfg Config, shards int, opts ...Option) (*Group, error) {
	if shards <= 0 {
		return nil, fmt.Errorf("%w: shard count must be positive, got %d", api.ErrInvalidConfig, shards)
	}
	cfg.ReusePort = true
	g := &Group{servers: make([]*Server, 0, shards)}
	for i := 0; i < shards; i++ {
		srv, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}
		srv.log = srv.log.With().Int("shard", i).Logger()
		g.servers = append(g.servers, srv)
	}
	return g, nil
}

// Shards returns the engines of the group.
func (g *Group) Shards() []*Server { return g.servers }

// Listen binds every shard. With Port 0 the first shard picks the port and the
// others join it. If a later shard fails, the shards already bound are closed
// and their close errors are appended to the returned error.
func (g *Group) Listen() error {
	first := g.servers[0]
	if err := first.Listen(); err != nil {
		return err
	}
	port := first.addr.Port
	for i, srv := range g.servers[1:] {
		srv.cfg.Port = port
		if err := srv.Listen(); err != nil {
			g.Stop()
			var result error = fmt.Errorf("shard %d listen: %w", i+1, err)
			for _, done := range g.servers[:i+1] {
				if cerr := done.shutdown(); cerr != nil {
					result = multierror.Append(result, cerr)
				}
			}
			return result
		}
	}
	return nil
}

// Addr returns the shared listening address, or nil before Listen.
func (g *Group) Addr() net.Addr { return g.servers[0].Addr() }

// Start runs all shards and blocks until every one has returned. A shard that
// fails stops the others.
func (g *Group) Start(newHandler HandlerFactory) error {
	if newHandler == nil {
		return fmt.Errorf("%w: nil handler factory", api.ErrInvalidConfig)
	}
	if err := g.Listen(); err != nil {
		return err
	}
	var eg errgroup.Group
	for i, srv := range g.servers {
		i, srv := i, srv
		eg.Go(func() error {
			err := srv.Start(newHandler(i))
			if err != nil {
				g.Stop()
			}
			return err
		})
	}
	return eg.Wait()
}

// Stop stops every shard. Safe to call more than once and from any goroutine.
func (g *Group) Stop() {
	for _, srv := range g.servers {
		srv.Stop()
	}
}

// Stats sums the counters of all shards.
func (g *Group) Stats() api.Stats {
	var total api.Stats
	for _, srv := range g.servers {
		total = total.Add(srv.Stats())
	}
	return total
}

var _ api.StatsSource = (*Group)(nil)

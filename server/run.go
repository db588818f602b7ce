// File: server/run.go
// Package server implements the listener setup, the readiness loop, the
// accept and read paths, and shutdown.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/momentics/hioload-fix/api"
	"github.com/momentics/hioload-fix/pool"
	"github.com/momentics/hioload-fix/protocol"
	"github.com/momentics/hioload-fix/reactor"
)

// Listen creates the listening socket and the reactor. It is called by Start
// when needed; calling it first lets the caller learn Addr before serving.
// Failures are returned as is and never retried.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poller != nil {
		return nil
	}
	if s.stopping.Load() {
		return api.ErrServerClosed
	}

	lfd, addr, err := reactor.ListenTCP(s.cfg.Host, s.cfg.Port, s.cfg.Backlog, s.cfg.ReusePort)
	if err != nil {
		return err
	}
	poller, err := reactor.NewReactor(s.cfg.MaxEvents)
	if err != nil {
		reactor.CloseFD(lfd)
		return err
	}
	if err := poller.Register(lfd); err != nil {
		poller.Close()
		reactor.CloseFD(lfd)
		return fmt.Errorf("register listener: %w", err)
	}
	s.lfd, s.addr, s.poller = lfd, addr, poller

	s.log.Info().
		Str("addr", addr.String()).
		Int("max_connections", s.cfg.MaxConnections).
		Int("buffer_size", s.cfg.BufferSize).
		Msg("listening")
	return nil
}

// Start runs the event loop on the calling goroutine until Stop is called.
// Every complete frame is passed to h. If h implements api.ConnObserver it is
// also told about connections being opened and closed.
//
// Start returns nil after a clean stop, the startup error if the listener
// could not be set up, or the errors met while closing descriptors. A panic
// raised by h is not recovered here: the listener, the reactor and every
// connection are closed and the panic continues up the caller's stack.
// Install adapters.RecoveryMiddleware to keep serving instead.
func (s *Server) Start(h api.FrameHandler) error {
	if h == nil {
		return fmt.Errorf("%w: nil frame handler", api.ErrInvalidConfig)
	}
	if !s.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer s.running.Store(false)
	if s.stopping.Load() {
		if err := s.shutdown(); err != nil {
			return multierror.Append(api.ErrServerClosed, err)
		}
		return api.ErrServerClosed
	}
	if err := s.Listen(); err != nil {
		return err
	}

	s.handler = NewHandlerChain(h, s.middleware...)
	s.observer, _ = h.(api.ConnObserver)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// A handler panic unwinds through the loop; release every descriptor
	// before it propagates.
	clean := false
	defer func() {
		if clean {
			return
		}
		if err := s.shutdown(); err != nil {
			s.log.Error().Err(err).Msg("shutdown after handler panic")
		}
	}()

	loopErr := s.loop()
	clean = true
	closeErr := s.shutdown()
	s.log.Info().Err(loopErr).Msg("stopped")
	if closeErr == nil {
		return loopErr
	}
	return multierror.Append(loopErr, closeErr)
}

// Stop asks the loop to exit. It is idempotent and may be called from any
// goroutine; Start returns within one PollTimeout.
func (s *Server) Stop() {
	if s.stopping.CompareAndSwap(false, true) {
		s.log.Debug().Msg("stop requested")
	}
}

func (s *Server) loop() error {
	for !s.stopping.Load() {
		timeout := s.cfg.PollTimeout
		if len(s.pending) > 0 {
			timeout = 0
		}
		n, err := s.poller.Wait(s.events, timeout)
		if err != nil {
			s.log.Error().Err(err).Msg("readiness wait failed")
			return err
		}
		for i := 0; i < n; i++ {
			ev := s.events[i]
			if ev.FD == s.lfd {
				s.acceptAll()
				continue
			}
			s.service(ev)
		}
		if s.retryAccept {
			s.acceptAll()
		}
		s.runPending()
	}
	return nil
}

// acceptAll drains the listener's accept queue.
func (s *Server) acceptAll() {
	s.retryAccept = false
	for {
		fd, err := reactor.Accept(s.lfd)
		if err != nil {
			if reactor.IsWouldBlock(err) {
				return
			}
			if reactor.IsTransientAccept(err) {
				continue
			}
			// Typically EMFILE/ENFILE: connections stay queued in the kernel,
			// the edge will not fire again, so retry after the next wait.
			s.retryAccept = true
			s.log.Error().Err(err).Msg("accept failed")
			return
		}

		idx, err := s.conns.Claim(fd)
		if err == nil {
			if err = s.poller.Register(fd); err != nil {
				s.conns.Release(idx)
			}
		}
		if err != nil {
			reactor.CloseFD(fd)
			s.stats.rejected.Add(1)
			if s.warn.Allow() {
				s.log.Warn().Err(err).Int("fd", fd).Msg("connection rejected")
			}
			continue
		}

		s.stats.accepted.Add(1)
		s.stats.active.Add(1)
		if s.observer != nil {
			s.observer.ConnOpened(fd)
		}
		s.log.Debug().Int("fd", fd).Int("slot", idx).Msg("connection accepted")
	}
}

// service handles one readiness event for a data descriptor.
func (s *Server) service(ev reactor.Event) {
	_, idx, ok := s.conns.Lookup(ev.FD)
	if !ok {
		// Stale event for a descriptor released earlier in this batch.
		return
	}
	if ev.Failed() {
		s.release(idx, api.CloseHangup, nil)
		return
	}
	if ev.Readable() {
		s.drain(idx, ev.FD)
	}
}

// drain reads fd until it would block, the peer closes, an error occurs,
// the buffer overflows or the per-round read budget runs out.
func (s *Server) drain(idx, fd int) {
	slot := s.conns.Slots().At(idx)
	budget := s.cfg.MaxReadsPerEvent
	h := s.handler
	for reads := 0; ; reads++ {
		if budget > 0 && reads == budget {
			s.park(idx, fd)
			return
		}
		n, err := reactor.Read(fd, s.scratch)
		if err != nil {
			if reactor.IsWouldBlock(err) {
				return
			}
			if reactor.IsInterrupted(err) {
				continue
			}
			s.release(idx, api.CloseReadError, err)
			return
		}
		if n == 0 {
			s.release(idx, api.ClosePeer, nil)
			return
		}
		s.stats.bytesRead.Add(uint64(n))

		if !slot.Append(s.scratch[:n]) {
			s.release(idx, api.CloseOverflow, nil)
			return
		}
		var frames uint64
		consumed := protocol.Scan(slot.Filled(), func(frame []byte) {
			frames++
			h.HandleFrame(fd, frame)
		})
		if consumed > 0 {
			slot.Consume(consumed)
			s.stats.frames.Add(frames)
		}
	}
}

// park parks a connection whose read budget ran out; it is serviced again
// after the current batch so one busy peer cannot starve the others.
func (s *Server) park(idx, fd int) {
	if s.queued[idx] {
		return
	}
	s.queued[idx] = true
	s.pending = append(s.pending, fd)
}

func (s *Server) runPending() {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = s.spare[:0]
	for _, fd := range batch {
		if _, idx, ok := s.conns.Lookup(fd); ok && s.queued[idx] {
			s.queued[idx] = false
			s.drain(idx, fd)
		}
	}
	s.spare = batch[:0]
}

// release frees slot idx, closes its descriptor and accounts for the reason.
func (s *Server) release(idx int, reason api.CloseReason, cause error) error {
	fd := s.conns.Release(idx)
	if fd == pool.NoFD {
		return nil
	}
	s.queued[idx] = false
	err := reactor.CloseFD(fd)
	s.stats.active.Add(-1)

	switch reason {
	case api.ClosePeer:
		s.stats.peerClosed.Add(1)
	case api.CloseReadError:
		s.stats.readErrors.Add(1)
	case api.CloseOverflow:
		s.stats.overflows.Add(1)
		if s.warn.Allow() {
			s.log.Warn().Int("fd", fd).Int("buffer_size", s.cfg.BufferSize).Msg("connection buffer overflow")
		}
	case api.CloseHangup:
		s.stats.hangups.Add(1)
	}
	if s.observer != nil {
		s.observer.ConnClosed(fd, reason)
	}
	s.log.Debug().Int("fd", fd).Int("slot", idx).Stringer("reason", reason).AnErr("cause", cause).Msg("connection released")
	if err != nil {
		return fmt.Errorf("close fd %d: %w", fd, err)
	}
	return nil
}

// shutdown releases every connection and closes the listener and reactor.
func (s *Server) shutdown() error {
	var result *multierror.Error
	s.conns.ForEachActive(func(idx int, _ *pool.Slot) {
		if err := s.release(idx, api.CloseShutdown, nil); err != nil {
			result = multierror.Append(result, err)
		}
	})
	s.pending = s.pending[:0]

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lfd >= 0 {
		if err := reactor.CloseFD(s.lfd); err != nil {
			result = multierror.Append(result, fmt.Errorf("close listener: %w", err))
		}
		s.lfd = -1
	}
	if s.poller != nil {
		if err := s.poller.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close reactor: %w", err))
		}
		s.poller = nil
	}
	return result.ErrorOrNil()
}

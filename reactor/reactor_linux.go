//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd int
	raw  []unix.EpollEvent
}

// NewReactor constructs an epoll reactor that returns at most maxEvents
// events per Wait.
func NewReactor(maxEvents int) (EventReactor, error) {
	if maxEvents <= 0 {
		return nil, fmt.Errorf("reactor: maxEvents must be positive, got %d", maxEvents)
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &linuxReactor{epfd: epfd, raw: make([]unix.EpollEvent, maxEvents)}, nil
}

// Register adds file descriptor to epoll.
func (r *linuxReactor) Register(fd int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLET,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	return nil
}

// Wait waits for epoll events and fills the result into events slice.
func (r *linuxReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	raw := r.raw
	if len(events) < len(raw) {
		raw = raw[:len(events)]
	}
	msec := -1
	if timeout >= 0 {
		msec = int(timeout / time.Millisecond)
	}
	n, err := unix.EpollWait(r.epfd, raw, msec)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		var t EventType
		if raw[i].Events&unix.EPOLLIN != 0 {
			t |= EventRead
		}
		if raw[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			t |= EventError
		}
		events[i] = Event{FD: int(raw[i].Fd), Events: t}
	}
	return n, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}

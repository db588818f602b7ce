//go:build linux
// +build linux

// File: reactor/socket_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw non-blocking TCP socket calls used by the event loop.

package reactor

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// ListenTCP opens a non-blocking IPv4 listening socket bound to host:port with
// SO_REUSEADDR (and SO_REUSEPORT when reusePort is set). It returns the
// descriptor and the bound address, which carries the real port when port is 0.
func ListenTCP(host string, port, backlog int, reusePort bool) (int, *net.TCPAddr, error) {
	ip := net.IPv4zero
	if host != "" {
		ip = net.ParseIP(host)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return -1, nil, fmt.Errorf("listen: %q is not an IPv4 address", host)
	}
	addr := &net.TCPAddr{IP: ip4, Port: port}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return -1, nil, fmt.Errorf("socket: %w", err)
	}
	fail := func(step string, err error) (int, *net.TCPAddr, error) {
		unix.Close(fd)
		return -1, nil, fmt.Errorf("%s %s: %w", step, addr, err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail("setsockopt SO_REUSEADDR", err)
	}
	if reusePort {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			return fail("setsockopt SO_REUSEPORT", err)
		}
	}
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip4)
	if err := unix.Bind(fd, sa); err != nil {
		return fail("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return fail("listen", err)
	}
	bound, err := unix.Getsockname(fd)
	if err != nil {
		return fail("getsockname", err)
	}
	if in4, ok := bound.(*unix.SockaddrInet4); ok {
		addr = &net.TCPAddr{IP: net.IP(append([]byte(nil), in4.Addr[:]...)), Port: in4.Port}
	}
	return fd, addr, nil
}

// Accept takes one pending connection off lfd. The new descriptor is already
// non-blocking and close-on-exec. The peer address is not requested, so the
// call does not allocate.
func Accept(lfd int) (int, error) {
	nfd, _, errno := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(lfd), 0, 0,
		unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(nfd), nil
}

// Read reads from a non-blocking descriptor.
func Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

// CloseFD closes a descriptor.
func CloseFD(fd int) error {
	return unix.Close(fd)
}

// IsWouldBlock reports whether err means no data or connection is pending.
func IsWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// IsInterrupted reports a call interrupted by a signal.
func IsInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// IsTransientAccept reports accept errors that concern only the connection
// being accepted; the accept loop should move on to the next one.
func IsTransientAccept(err error) bool {
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.ECONNABORTED) ||
		errors.Is(err, unix.EPROTO) || errors.Is(err, unix.EPERM)
}

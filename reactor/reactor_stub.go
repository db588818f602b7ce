//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"
	"net"

	"github.com/momentics/hioload-fix/api"
)

// NewReactor returns an error for unsupported platforms.
func NewReactor(int) (EventReactor, error) {
	return nil, fmt.Errorf("reactor: %w on this platform", api.ErrNotSupported)
}

func ListenTCP(string, int, int, bool) (int, *net.TCPAddr, error) {
	return -1, nil, fmt.Errorf("listen: %w on this platform", api.ErrNotSupported)
}

func Accept(int) (int, error) { return -1, api.ErrNotSupported }
func Read(int, []byte) (int, error) { return 0, api.ErrNotSupported }
func CloseFD(int) error { return api.ErrNotSupported }
func IsWouldBlock(error) bool { return false }
func IsInterrupted(error) bool { return false }
func IsTransientAccept(error) bool { return false }

//go:build linux

// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-fix components.

package benchmarks

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/momentics/hioload-fix/adapters"
	"github.com/momentics/hioload-fix/pool"
	"github.com/momentics/hioload-fix/protocol"
	"github.com/momentics/hioload-fix/server"
)

// BenchmarkRegistryChurn measures claim/release of connection slots.
func BenchmarkRegistryChurn(b *testing.B) {
	reg := pool.NewRegistry(1024, 256, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fd := 16 + i%1000
		idx, err := reg.Claim(fd)
		if err != nil {
			b.Fatal(err)
		}
		reg.Release(idx)
	}
}

// BenchmarkSlotAppendScan measures the per-read path without sockets.
func BenchmarkSlotAppendScan(b *testing.B) {
	msg := protocol.BuildMessage(nil, "FIX.4.4", "D",
		protocol.Field{Tag: 49, Value: "SENDER"},
		protocol.Field{Tag: 56, Value: "TGT"},
	)
	reg := pool.NewRegistry(1, 4096, 64)
	idx, _ := reg.Claim(3)
	slot := reg.Slots().At(idx)

	b.ReportAllocs()
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !slot.Append(msg) {
			b.Fatal("overflow")
		}
		slot.Consume(protocol.Scan(slot.Filled(), nil))
	}
}

// BenchmarkServerLoopback measures end-to-end frame delivery over loopback.
func BenchmarkServerLoopback(b *testing.B) {
	cfg := server.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.MaxConnections = 1
	// Larger than the socket receive buffer, so a read never overflows.
	cfg.BufferSize = 8 << 20
	cfg.PollTimeout = 20 * time.Millisecond
	srv, err := server.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := srv.Listen(); err != nil {
		b.Fatal(err)
	}
	counter := &adapters.Counter{}
	done := make(chan error, 1)
	go func() { done <- srv.Start(counter) }()
	defer func() {
		srv.Stop()
		<-done
	}()

	conn, err := net.Dial("tcp4", srv.Addr().String())
	if err != nil {
		b.Fatal(err)
	}
	defer conn.Close()

	msg := protocol.BuildMessage(nil, "FIX.4.4", "D",
		protocol.Field{Tag: 49, Value: "SENDER"},
		protocol.Field{Tag: 56, Value: "TGT"},
	)
	w := bufio.NewWriterSize(conn, 4096)
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := w.Write(msg); err != nil {
			b.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		b.Fatal(err)
	}
	deadline := time.Now().Add(30 * time.Second)
	for counter.Frames() < uint64(b.N) {
		if time.Now().After(deadline) {
			b.Fatalf("delivered %d of %d frames", counter.Frames(), b.N)
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// File: server/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server_test

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/momentics/hioload-fix/api"
	"github.com/momentics/hioload-fix/server"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := server.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.MaxConnections = 0
	cfg.BufferSize = -1
	cfg.PollTimeout = 0

	err := cfg.Validate()
	if !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("Validate = %v, want ErrInvalidConfig", err)
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Validate returned %T, want *multierror.Error", err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(merr.Errors), err)
	}

	if _, err := server.New(cfg); !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("New = %v, want ErrInvalidConfig", err)
	}
}

func TestStartRejectsNilHandler(t *testing.T) {
	srv, err := server.New(server.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(nil); !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("Start(nil) = %v", err)
	}
}

func TestNewGroupRejectsZeroShards(t *testing.T) {
	if _, err := server.NewGroup(server.DefaultConfig(), 0); !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("NewGroup = %v", err)
	}
}

func TestHandlerChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) api.Middleware {
		return func(next api.FrameHandler) api.FrameHandler {
			return api.FrameHandlerFunc(func(fd int, frame []byte) {
				order = append(order, name)
				next.HandleFrame(fd, frame)
			})
		}
	}
	base := api.FrameHandlerFunc(func(int, []byte) { order = append(order, "base") })

	h := server.NewHandlerChain(base, tag("outer"), tag("inner"))
	h.HandleFrame(3, []byte("8=FIX"))

	want := []string{"outer", "inner", "base"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

package control_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/momentics/hioload-fix/api"
	"github.com/momentics/hioload-fix/control"
	"github.com/momentics/hioload-fix/server"
	"github.com/prometheus/client_golang/prometheus"
)

func TestParseFileOverlaysDefaults(t *testing.T) {
	f, err := control.ParseFile(`
port = 7001
max_connections = 16
poll_timeout = "250ms"
shards = 2

[log]
level = "debug"

[stats]
redis_addr = "127.0.0.1:6379"
interval = "2s"
`)
	if err != nil {
		t.Fatal(err)
	}
	def := server.DefaultConfig()
	if f.Server.Port != 7001 || f.Server.MaxConnections != 16 || f.Server.PollTimeout != 250*time.Millisecond {
		t.Fatalf("server = %+v", f.Server)
	}
	if f.Server.BufferSize != def.BufferSize || f.Server.Host != def.Host {
		t.Fatalf("unset keys changed defaults: %+v", f.Server)
	}
	if f.Shards != 2 || f.Log.Level != "debug" || f.Log.Format != "console" {
		t.Fatalf("file = %+v", f)
	}
	if f.Stats.RedisAddr != "127.0.0.1:6379" || f.Stats.Interval != 2*time.Second || f.Stats.Prefix != "hioload:fix" {
		t.Fatalf("stats = %+v", f.Stats)
	}
}

func TestParseFileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":    `colour = "blue"`,
		"bad duration":   `poll_timeout = "soon"`,
		"invalid engine": `max_connections = 0`,
		"zero shards":    `shards = 0`,
		"bad toml":       `port = `,
	}
	for name, data := range cases {
		if _, err := control.ParseFile(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := control.ParseFile(`max_connections = 0`); !errors.Is(err, api.ErrInvalidConfig) {
		t.Errorf("invalid engine: %v is not ErrInvalidConfig", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fix.toml")
	if err := os.WriteFile(path, []byte("host = \"127.0.0.1\"\nbuffer_size = 4096\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := control.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "127.0.0.1" || cfg.BufferSize != 4096 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if _, err := control.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

type staticStats api.Stats

func (s staticStats) Stats() api.Stats { return api.Stats(s) }

func TestCollectorExportsStats(t *testing.T) {
	src := staticStats{Accepted: 5, Rejected: 1, Active: 3, Frames: 42, Overflows: 2}
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(control.NewCollector(src, 8, prometheus.Labels{"shard": "0"}))

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "reason" {
					name += "/" + lp.GetValue()
				}
			}
			switch {
			case m.GetCounter() != nil:
				values[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[name] = m.GetGauge().GetValue()
			}
		}
	}
	want := map[string]float64{
		"hioload_fix_connections_accepted_total":       5,
		"hioload_fix_connections_rejected_total":       1,
		"hioload_fix_connections_active":               3,
		"hioload_fix_frames_total":                     42,
		"hioload_fix_connections_closed_total/overflow": 2,
		"hioload_fix_connection_slots":                 8,
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %v, want %v", k, values[k], v)
		}
	}
}

func TestDebugProbes(t *testing.T) {
	srv, err := server.New(server.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	dp := control.NewDebugProbes()
	dp.RegisterAll("engine.", srv.Probes())
	control.RegisterPlatformProbes(dp)
	dp.RegisterProbe("custom", func() any { return "ok" })

	state := dp.DumpState()
	if state["engine.slots.capacity"] != 4096 {
		t.Errorf("capacity probe = %v", state["engine.slots.capacity"])
	}
	if state["engine.running"] != false {
		t.Errorf("running probe = %v", state["engine.running"])
	}
	if state["custom"] != "ok" || state["platform.cpus"] == nil {
		t.Errorf("state = %v", state)
	}

	engine := dp.Dump("engine.")
	if len(engine) != len(srv.Probes()) {
		t.Errorf("engine subset = %v", engine)
	}
	if _, ok := engine["custom"]; ok {
		t.Error("prefix filter leaked custom")
	}
	names := dp.Names()
	if !sort.StringsAreSorted(names) || len(names) != len(state) {
		t.Errorf("names = %v", names)
	}
}

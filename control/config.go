// control/config.go
// Author: momentics <momentics@gmail.com>
//
// TOML configuration loading. Only keys present in the file override the
// defaults, so an empty file yields server.DefaultConfig().

package control

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/momentics/hioload-fix/api"
	"github.com/momentics/hioload-fix/server"
)

// File is everything a configuration file may set.
type File struct {
	Server      server.Config
	Shards      int    // engines sharing the port, 1 runs a single Server
	MetricsAddr string // HTTP address for /metrics, empty disables it
	Log         LogConfig
	Stats       StatsConfig
}

// LogConfig selects the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// StatsConfig configures publishing of counter snapshots to Redis.
type StatsConfig struct {
	RedisAddr string
	Prefix    string
	Interval  time.Duration
	TTL       time.Duration
}

// DefaultFile returns the configuration used when no file is given.
func DefaultFile() File {
	return File{
		Server: server.DefaultConfig(),
		Shards: 1,
		Log:    LogConfig{Level: "info", Format: "console"},
		Stats:  StatsConfig{Prefix: "hioload:fix", Interval: 5 * time.Second, TTL: 24 * time.Hour},
	}
}

type rawFile struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	MaxConnections   int    `toml:"max_connections"`
	MaxEvents        int    `toml:"max_events"`
	BufferSize       int    `toml:"buffer_size"`
	MaxFDs           int    `toml:"max_fds"`
	Backlog          int    `toml:"backlog"`
	PollTimeout      string `toml:"poll_timeout"`
	MaxReadsPerEvent int    `toml:"max_reads_per_event"`
	ReusePort        bool   `toml:"reuse_port"`
	Shards           int    `toml:"shards"`
	MetricsAddr      string `toml:"metrics_addr"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`

	Stats struct {
		RedisAddr string `toml:"redis_addr"`
		Prefix    string `toml:"prefix"`
		Interval  string `toml:"interval"`
		TTL       string `toml:"ttl"`
	} `toml:"stats"`
}

// LoadConfig reads the engine configuration from a TOML file.
func LoadConfig(path string) (server.Config, error) {
	f, err := LoadFile(path)
	if err != nil {
		return server.Config{}, err
	}
	return f.Server, nil
}

// LoadFile reads a TOML file and validates the engine section.
func LoadFile(path string) (File, error) {
	var raw rawFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return File{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return apply(raw, meta)
}

// ParseFile decodes TOML held in memory.
func ParseFile(data string) (File, error) {
	var raw rawFile
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return apply(raw, meta)
}

func apply(raw rawFile, meta toml.MetaData) (File, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("%w: unknown keys %s", api.ErrInvalidConfig, strings.Join(keys, ", "))
	}

	f := DefaultFile()
	cfg := &f.Server
	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("max_connections") {
		cfg.MaxConnections = raw.MaxConnections
	}
	if meta.IsDefined("max_events") {
		cfg.MaxEvents = raw.MaxEvents
	}
	if meta.IsDefined("buffer_size") {
		cfg.BufferSize = raw.BufferSize
	}
	if meta.IsDefined("max_fds") {
		cfg.MaxFDs = raw.MaxFDs
	}
	if meta.IsDefined("backlog") {
		cfg.Backlog = raw.Backlog
	}
	if meta.IsDefined("poll_timeout") {
		d, err := parseDuration("poll_timeout", raw.PollTimeout)
		if err != nil {
			return File{}, err
		}
		cfg.PollTimeout = d
	}
	if meta.IsDefined("max_reads_per_event") {
		cfg.MaxReadsPerEvent = raw.MaxReadsPerEvent
	}
	if meta.IsDefined("reuse_port") {
		cfg.ReusePort = raw.ReusePort
	}
	if meta.IsDefined("shards") {
		f.Shards = raw.Shards
	}
	if meta.IsDefined("metrics_addr") {
		f.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("log", "level") {
		f.Log.Level = raw.Log.Level
	}
	if meta.IsDefined("log", "format") {
		f.Log.Format = raw.Log.Format
	}

	if meta.IsDefined("stats", "redis_addr") {
		f.Stats.RedisAddr = strings.TrimSpace(raw.Stats.RedisAddr)
	}
	if meta.IsDefined("stats", "prefix") {
		f.Stats.Prefix = raw.Stats.Prefix
	}
	if meta.IsDefined("stats", "interval") {
		d, err := parseDuration("stats.interval", raw.Stats.Interval)
		if err != nil {
			return File{}, err
		}
		f.Stats.Interval = d
	}
	if meta.IsDefined("stats", "ttl") {
		d, err := parseDuration("stats.ttl", raw.Stats.TTL)
		if err != nil {
			return File{}, err
		}
		f.Stats.TTL = d
	}

	if f.Shards <= 0 {
		return File{}, fmt.Errorf("%w: shards must be positive, got %d", api.ErrInvalidConfig, f.Shards)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

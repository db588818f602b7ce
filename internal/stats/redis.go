// File: internal/stats/redis.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore writes each snapshot to a hash holding the latest values for the
// node and, with minute bucketing, to a per-minute hash that expires after ttl.
//
//	<prefix>:latest:<node>
//	<prefix>:minute:<yyyymmddhhmm>:<node>
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	bucket string // "minute" (default) or "none"
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix; surrounding colons are trimmed.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithTTL sets the expiry of per-minute hashes. d <= 0 keeps them forever.
// The latest hash never expires.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// WithBucket selects history bucketing: "minute" writes a per-minute hash
// next to the latest one, any other value writes only the latest hash.
func WithBucket(bucket string) RedisOption {
	return func(s *RedisStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

// NewRedisStore creates a store writing through rdb. Defaults are prefix
// "hioload:fix", a 24h TTL and minute buckets.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "hioload:fix",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LatestKey returns the hash key holding the newest snapshot for node.
func (s *RedisStore) LatestKey(node string) string {
	return s.prefix + ":latest:" + node
}

// BucketKey returns the per-minute hash key for node at t.
func (s *RedisStore) BucketKey(node string, t time.Time) string {
	return fmt.Sprintf("%s:minute:%s:%s", s.prefix, t.UTC().Format("200601021504"), node)
}

// Record writes snap in one pipeline. A nil store or client is a no-op.
func (s *RedisStore) Record(ctx context.Context, snap Snapshot) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	at := snap.At
	if at.IsZero() {
		at = time.Now()
	}
	fields := snapshotFields(snap, at)

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, s.LatestKey(snap.Node), fields)
	if s.bucket == "minute" {
		key := s.BucketKey(snap.Node, at)
		pipe.HSet(ctx, key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record %s: %w", snap.Node, err)
	}
	return nil
}

func snapshotFields(snap Snapshot, at time.Time) map[string]any {
	st := snap.Stats
	return map[string]any{
		"at":          at.UTC().Unix(),
		"accepted":    st.Accepted,
		"rejected":    st.Rejected,
		"active":      st.Active,
		"frames":      st.Frames,
		"bytes_read":  st.BytesRead,
		"peer_closed": st.PeerClosed,
		"read_errors": st.ReadErrors,
		"overflows":   st.Overflows,
		"hangups":     st.Hangups,
	}
}

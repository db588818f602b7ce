// File: control/debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Read-only views of engine state: slot occupancy, buffer sizing, loop state
// and the last published counter snapshot. Probes are evaluated on request
// from engine atomics and configuration; none of them touch a loop's slot
// table. fixserver serves them as JSON under /debug/probes.

package control

import (
	"sort"
	"strings"
	"sync"
)

// DebugProbes maps dotted names such as "shard0.slots.in_use" to functions
// producing their current value.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

func NewDebugProbes() *DebugProbes {
	return &DebugProbes{probes: make(map[string]func() any)}
}

// RegisterProbe adds fn under name, replacing any earlier probe of that name.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	dp.probes[name] = fn
	dp.mu.Unlock()
}

// RegisterAll adds every probe of set under prefix+name. Engines and shards
// hand in their server.Server.Probes map with prefixes like "engine." or
// "shard1.".
func (dp *DebugProbes) RegisterAll(prefix string, set map[string]func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	for name, fn := range set {
		dp.probes[prefix+name] = fn
	}
}

// Names returns the registered names in sorted order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	names := make([]string, 0, len(dp.probes))
	for name := range dp.probes {
		names = append(names, name)
	}
	dp.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Dump evaluates the probes whose name starts with prefix; an empty prefix
// selects all of them.
func (dp *DebugProbes) Dump(prefix string) map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for name, fn := range dp.probes {
		if strings.HasPrefix(name, prefix) {
			out[name] = fn()
		}
	}
	return out
}

// DumpState evaluates every probe.
func (dp *DebugProbes) DumpState() map[string]any { return dp.Dump("") }

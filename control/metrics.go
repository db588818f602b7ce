// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus export of engine counters. Values are read from a StatsSource
// on every scrape, so the event loop never touches the registry.

package control

import (
	"github.com/momentics/hioload-fix/api"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hioload_fix"

// Collector is a prometheus.Collector over an api.StatsSource.
type Collector struct {
	src api.StatsSource

	accepted   *prometheus.Desc
	rejected   *prometheus.Desc
	active     *prometheus.Desc
	frames     *prometheus.Desc
	bytesRead  *prometheus.Desc
	closed     *prometheus.Desc
	capacity   *prometheus.Desc
	slotsTotal float64
}

// NewCollector exports src. capacity is the slot count reported as
// hioload_fix_connection_slots; pass 0 to omit it.
func NewCollector(src api.StatsSource, capacity int, constLabels prometheus.Labels) *Collector {
	desc := func(subsystem, name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, constLabels)
	}
	return &Collector{
		src:        src,
		accepted:   desc("connections", "accepted_total", "Connections that received a slot."),
		rejected:   desc("connections", "rejected_total", "Connections closed on accept because no slot was available."),
		active:     desc("connections", "active", "Connections currently holding a slot."),
		frames:     desc("frames", "total", "Complete frames delivered to the handler."),
		bytesRead:  desc("read", "bytes_total", "Bytes read from connections."),
		closed:     desc("connections", "closed_total", "Connections released by the engine.", "reason"),
		capacity:   desc("connection", "slots", "Size of the connection slot table."),
		slotsTotal: float64(capacity),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.accepted
	ch <- c.rejected
	ch <- c.active
	ch <- c.frames
	ch <- c.bytesRead
	ch <- c.closed
	if c.slotsTotal > 0 {
		ch <- c.capacity
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.accepted, st.Accepted)
	counter(c.rejected, st.Rejected)
	counter(c.frames, st.Frames)
	counter(c.bytesRead, st.BytesRead)
	counter(c.closed, st.PeerClosed, api.ClosePeer.String())
	counter(c.closed, st.ReadErrors, api.CloseReadError.String())
	counter(c.closed, st.Overflows, api.CloseOverflow.String())
	counter(c.closed, st.Hangups, api.CloseHangup.String())
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(st.Active))
	if c.slotsTotal > 0 {
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, c.slotsTotal)
	}
}

var _ prometheus.Collector = (*Collector)(nil)

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource produces a point-in-time keyspace summary. The server
// wires it to the store.
type StatsSource func() KeyspaceStats

// KeyspaceStats mirrors the store's point-in-time summary without
// importing the store package.
type KeyspaceStats struct {
	StringKeys     int
	ListKeys       int
	StreamKeys     int
	SetKeys        int
	BlockedWaiters int
}

// KeyspaceCollector samples a StatsSource at scrape time and exposes
// keyspace gauges.
type KeyspaceCollector struct {
	source  StatsSource
	keys    *prometheus.Desc
	waiters *prometheus.Desc
}

// NewKeyspaceCollector creates a collector over the given source.
func NewKeyspaceCollector(source StatsSource) *KeyspaceCollector {
	return &KeyspaceCollector{
		source: source,
		keys: prometheus.NewDesc(
			"voltkv_keys",
			"Number of keys currently stored, by value kind.",
			[]string{"kind"}, nil,
		),
		waiters: prometheus.NewDesc(
			"voltkv_blocked_waiters",
			"Number of clients currently suspended in a blocking pop.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.waiters
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.source()
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(st.StringKeys), "string")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(st.ListKeys), "list")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(st.StreamKeys), "stream")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(st.SetKeys), "set")
	ch <- prometheus.MustNewConstMetric(c.waiters, prometheus.GaugeValue, float64(st.BlockedWaiters))
}

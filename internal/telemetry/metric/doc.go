// Package metric provides Prometheus metrics for VoltKV.
//
// It exposes metrics in Prometheus format for monitoring connection
// counts, command rates and latencies, and keyspace size. The keyspace
// gauges are produced by a custom collector that samples the store at
// scrape time rather than on every mutation.
package metric

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for the ingestion pipeline and the
// store files. Registered once at startup, threaded into the components that
// record to it.
type Metrics struct {
	IngestedTotal *prometheus.CounterVec
	RejectedTotal *prometheus.CounterVec
	PrunedTotal   *prometheus.CounterVec
	DroppedRows   *prometheus.CounterVec
	StoreEntries  *prometheus.GaugeVec
	StoreBytes    *prometheus.GaugeVec
}

// New registers the collectors with the given registerer
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threatviz",
			Name:      "threats_ingested_total",
			Help:      "Threat records accepted via webhook",
		}, []string{"mode"}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threatviz",
			Name:      "threats_rejected_total",
			Help:      "Threat records rejected by validation",
		}, []string{"mode"}),
		PrunedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threatviz",
			Name:      "threats_pruned_total",
			Help:      "Threat records evicted by the retention caps",
		}, []string{"mode"}),
		DroppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threatviz",
			Name:      "store_rows_dropped_total",
			Help:      "Malformed rows dropped while loading a store file",
		}, []string{"mode"}),
		StoreEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "threatviz",
			Name:      "store_entries",
			Help:      "Records currently in a store file",
		}, []string{"mode"}),
		StoreBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "threatviz",
			Name:      "store_size_bytes",
			Help:      "Size of a store file on disk",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		m.IngestedTotal, m.RejectedTotal, m.PrunedTotal,
		m.DroppedRows, m.StoreEntries, m.StoreBytes,
	)
	return m
}

// SetStoreStats updates the per-store gauges
func (m *Metrics) SetStoreStats(mode string, entries int, sizeBytes int64) {
	m.StoreEntries.WithLabelValues(mode).Set(float64(entries))
	m.StoreBytes.WithLabelValues(mode).Set(float64(sizeBytes))
}

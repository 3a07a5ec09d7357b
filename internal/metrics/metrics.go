// Package metrics defines the Prometheus collectors exported by the ledger.
//
// All methods are safe to call on a nil *Metrics, so components can be built
// without instrumentation in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

// Metrics holds the collectors for one process.
type Metrics struct {
	mutations        *prometheus.CounterVec
	snapshotWrites   *prometheus.CounterVec
	snapshotFailures *prometheus.CounterVec
	snapshotBytes    *prometheus.GaugeVec
	authAttempts     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Ledger mutations applied, by operation.",
		}, []string{"op"}),
		snapshotWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshots written, by storage namespace.",
		}, []string{"namespace"}),
		snapshotFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_write_failures_total",
			Help:      "Snapshot writes that failed, by storage namespace.",
		}, []string{"namespace"}),
		snapshotBytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of the last snapshot written, by storage namespace.",
		}, []string{"namespace"}),
		authAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Sign-in and sign-up attempts, by operation and result.",
		}, []string{"op", "result"}),
	}
}

// Mutation counts one applied ledger mutation.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

// SnapshotWritten records a successful snapshot write of size bytes.
func (m *Metrics) SnapshotWritten(ns string, size int) {
	if m == nil {
		return
	}
	m.snapshotWrites.WithLabelValues(ns).Inc()
	m.snapshotBytes.WithLabelValues(ns).Set(float64(size))
}

// SnapshotFailed records a failed snapshot write.
func (m *Metrics) SnapshotFailed(ns string) {
	if m == nil {
		return
	}
	m.snapshotFailures.WithLabelValues(ns).Inc()
}

// AuthAttempt records the outcome of a sign-in or sign-up.
func (m *Metrics) AuthAttempt(op, result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(op, result).Inc()
}

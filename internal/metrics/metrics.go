// Package metrics counts calls made against the backing stores.
package metrics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Store label values.
const (
	StoreDocument   = "document"
	StoreRelational = "relational"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the store call counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Calls *prometheus.CounterVec

	// own always holds Calls so Totals works without an external registry.
	own *prometheus.Registry
}

// Total is one counter series.
type Total struct {
	Store   string
	Op      string
	Outcome string
	Count   float64
}

// New creates the counters and registers them with reg.
// Pass nil to keep them private to this Metrics (useful in tests).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pawtrail",
			Name:      "store_calls_total",
			Help:      "Round trips issued to a backing store, by store, operation and outcome.",
		}, []string{"store", "op", "outcome"}),
		own: prometheus.NewRegistry(),
	}
	m.own.MustRegister(m.Calls)
	if reg != nil {
		reg.MustRegister(m.Calls)
	}
	return m
}

// Totals gathers the current counter values, sorted by store, op and outcome.
func (m *Metrics) Totals() ([]Total, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.own.Gather()
	if err != nil {
		return nil, err
	}
	var out []Total
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			t := Total{Count: metric.GetCounter().GetValue()}
			for _, lp := range metric.GetLabel() {
				switch lp.GetName() {
				case "store":
					t.Store = lp.GetValue()
				case "op":
					t.Op = lp.GetValue()
				case "outcome":
					t.Outcome = lp.GetValue()
				}
			}
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		return a.Outcome < b.Outcome
	})
	return out, nil
}

// LogTotals writes one debug record per counter series.
func (m *Metrics) LogTotals(ctx context.Context, logger *slog.Logger) {
	totals, err := m.Totals()
	if err != nil {
		logger.WarnContext(ctx, "failed to gather store call totals", "error", err)
		return
	}
	for _, t := range totals {
		logger.DebugContext(ctx, "store calls",
			"store", t.Store,
			"op", t.Op,
			"outcome", t.Outcome,
			"count", t.Count,
		)
	}
}

// Observe records one round trip.
func (m *Metrics) Observe(store, op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Calls.WithLabelValues(store, op, outcome).Inc()
}

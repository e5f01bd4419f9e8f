// Package observability carries the Prometheus metrics for the ledger and
// the event sink that bridges committed ledger events onto the process log
// and the metrics registry.
package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aurum-network/aurum/internal/domain"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// OperationsTotal counts ledger invocations by operation and outcome.
var OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aurum",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Total ledger invocations by operation and outcome.",
}, []string{"operation", "outcome"})

// Conflicts counts invocations retried or rejected on a version conflict.
var Conflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aurum",
	Subsystem: "ledger",
	Name:      "conflicts_total",
	Help:      "Total invocations that failed read-set validation at commit.",
})

// EventsPublished counts committed ledger events by name.
var EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aurum",
	Subsystem: "events",
	Name:      "published_total",
	Help:      "Total ledger events published after commit, by event name.",
}, []string{"name"})

// ─── Sweep Metrics ──────────────────────────────────────────────────────────

// SweepRuns counts sweep passes.
var SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "aurum",
	Subsystem: "sweep",
	Name:      "runs_total",
	Help:      "Total scheduler sweep passes.",
})

// SweepSettled counts scheduled and recurring settlements fired by sweeps.
var SweepSettled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "aurum",
	Subsystem: "sweep",
	Name:      "settled_total",
	Help:      "Total settlements fired by sweep passes, by kind and outcome.",
}, []string{"kind", "outcome"})

// ─── Event Sink ─────────────────────────────────────────────────────────────

// LogSink is the domain.EventSink wired into the state store: it writes each
// committed event to the process log and bumps the events counter.
type LogSink struct{}

// Publish records a batch of committed events.
func (LogSink) Publish(events []domain.Event) {
	for _, ev := range events {
		EventsPublished.WithLabelValues(ev.Name).Inc()
		log.Printf("[events] %s %s", ev.Name, ev.Payload)
	}
}

var _ domain.EventSink = LogSink{}

// Observe records the outcome of one named ledger invocation.
func Observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

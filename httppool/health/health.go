// Package health bridges httppool.Listener events into Prometheus metrics
// via an xmetrics.Registry.
package health

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xmidt-org/httppool-core/httppool"
	"github.com/xmidt-org/httppool-core/xmetrics"
)

const (
	// TransactionsQueuedCounter counts transactions admitted to a worker.
	TransactionsQueuedCounter = "transactions_queued"

	// TransactionsRejectedCounter counts transactions the pool refused to
	// admit, labeled by reason ("full" or "closed").
	TransactionsRejectedCounter = "transactions_rejected"

	// TransactionsFinishedCounter counts transactions that finished,
	// labeled by outcome ("success" or "error"). Timeouts count as
	// "success" here since they are not errors from the pool's
	// perspective; a Deliverable that cares about timeouts separately
	// should inspect DeliveryResult.Kind itself.
	TransactionsFinishedCounter = "transactions_finished"
)

// Module returns the metric descriptors this package registers with an
// xmetrics.Registry. Pass it to xmetrics.NewRegistry alongside any other
// modules before constructing a Listener against that same registry.
func Module() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: TransactionsQueuedCounter,
			Type: xmetrics.CounterType,
			Help: "count of transactions admitted to a worker",
		},
		{
			Name:       TransactionsRejectedCounter,
			Type:       xmetrics.CounterType,
			Help:       "count of transactions rejected by the pool",
			LabelNames: []string{"reason"},
		},
		{
			Name:       TransactionsFinishedCounter,
			Type:       xmetrics.CounterType,
			Help:       "count of transactions that finished",
			LabelNames: []string{"outcome"},
		},
	}
}

// listener is an internal httppool.Listener that records events as
// Prometheus counters.
type listener struct {
	queued   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	finished *prometheus.CounterVec
}

func (l *listener) On(event httppool.Event) {
	switch event.Type() {
	case httppool.EventQueue:
		l.queued.WithLabelValues().Inc()

	case httppool.EventReject:
		reason := "full"
		if errors.Is(event.Err(), httppool.ErrPoolClosed) {
			reason = "closed"
		}

		l.rejected.WithLabelValues(reason).Inc()

	case httppool.EventFinish:
		outcome := "success"
		if event.Err() != nil {
			outcome = "error"
		}

		l.finished.WithLabelValues(outcome).Inc()
	}
}

// Listener constructs an httppool.Listener that records pool activity as
// Prometheus metrics. registry must already have Module's metrics
// registered, typically by passing health.Module to xmetrics.NewRegistry
// and then calling Listener against that same Registry.
func Listener(registry xmetrics.PrometheusProvider) httppool.Listener {
	return &listener{
		queued:   registry.NewCounterVec(TransactionsQueuedCounter),
		rejected: registry.NewCounterVec(TransactionsRejectedCounter),
		finished: registry.NewCounterVec(TransactionsFinishedCounter),
	}
}

package health

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmidt-org/httppool-core/httppool"
	"github.com/xmidt-org/httppool-core/xmetrics"
)

type mockEvent struct {
	eventType httppool.EventType
	err       error
}

func (e mockEvent) Type() httppool.EventType {
	return e.eventType
}

func (e mockEvent) Err() error {
	return e.err
}

func newTestRegistry(t *testing.T) xmetrics.Registry {
	registry, err := xmetrics.NewRegistry(
		&xmetrics.Options{Namespace: "test", Subsystem: "health"},
		Module,
	)

	require.NoError(t, err)
	return registry
}

func counterValue(t *testing.T, registry xmetrics.Registry, name string, labelValues ...string) float64 {
	vec := registry.NewCounterVec(name)
	return testutil.ToFloat64(vec.WithLabelValues(labelValues...))
}

func TestListenerQueue(t *testing.T) {
	registry := newTestRegistry(t)
	listener := Listener(registry)

	listener.On(mockEvent{eventType: httppool.EventQueue})

	assert.Equal(t, float64(1), counterValue(t, registry, TransactionsQueuedCounter))
}

func TestListenerReject(t *testing.T) {
	testData := []struct {
		err    error
		reason string
	}{
		{err: httppool.ErrPoolFull, reason: "full"},
		{err: httppool.ErrPoolClosed, reason: "closed"},
		{err: &httppool.RequestError{}, reason: "full"},
	}

	for _, record := range testData {
		registry := newTestRegistry(t)
		listener := Listener(registry)

		listener.On(mockEvent{eventType: httppool.EventReject, err: record.err})

		assert.Equal(t, float64(1), counterValue(t, registry, TransactionsRejectedCounter, record.reason))
	}
}

func TestListenerFinish(t *testing.T) {
	registry := newTestRegistry(t)
	listener := Listener(registry)

	listener.On(mockEvent{eventType: httppool.EventFinish})
	listener.On(mockEvent{eventType: httppool.EventFinish, err: errors.New("boom")})

	assert.Equal(t, float64(1), counterValue(t, registry, TransactionsFinishedCounter, "success"))
	assert.Equal(t, float64(1), counterValue(t, registry, TransactionsFinishedCounter, "error"))
}

func TestListenerStartIgnored(t *testing.T) {
	registry := newTestRegistry(t)
	listener := Listener(registry)

	assert.NotPanics(t, func() {
		listener.On(mockEvent{eventType: httppool.EventStart})
	})
}

package httppool

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerTimeoutDeliversKindTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	pool, err := New(Config{Workers: 1, TransactionTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer pool.Shutdown()

	done := make(chan DeliveryResult, 1)
	request, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	require.NoError(t, pool.Request(NewTransaction(ChannelDeliverable(done), request)))

	select {
	case result := <-done:
		assert.Equal(t, KindTimeout, result.Kind)
		assert.GreaterOrEqual(t, result.Duration, 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for timeout delivery")
	}
}

func TestWorkerErrorDeliversKindError(t *testing.T) {
	pool, err := New(Config{Workers: 1})
	require.NoError(t, err)
	defer pool.Shutdown()

	done := make(chan DeliveryResult, 1)
	request, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:0", nil)
	require.NoError(t, err)

	require.NoError(t, pool.Request(NewTransaction(ChannelDeliverable(done), request)))

	select {
	case result := <-done:
		assert.Equal(t, KindError, result.Kind)
		assert.Error(t, result.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error delivery")
	}
}

func TestWorkerReusesConnectionsAcrossSequentialRequests(t *testing.T) {
	var newConnections int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			atomic.AddInt32(&newConnections, 1)
		}
	}

	pool, err := New(Config{Workers: 1, MaxTransactionsPerWorker: 4})
	require.NoError(t, err)
	defer pool.Shutdown()

	for i := 0; i < 5; i++ {
		done := make(chan DeliveryResult, 1)
		request, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		require.NoError(t, pool.Request(NewTransaction(ChannelDeliverable(done), request)))

		select {
		case result := <-done:
			require.Equal(t, KindResponse, result.Kind)
			result.Response.Body.Close()
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&newConnections), "sequential requests on one worker should reuse the kept-alive connection")
}

func TestWorkerDeliverablePanicDoesNotTakeDownWorker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pool, err := New(Config{Workers: 1})
	require.NoError(t, err)
	defer pool.Shutdown()

	panicking := DeliverableFunc(func(DeliveryResult) {
		panic("boom")
	})

	firstRequest, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	require.NoError(t, pool.Request(NewTransaction(panicking, firstRequest)))

	// give the panicking deliverable time to run and be recovered
	time.Sleep(50 * time.Millisecond)

	done := make(chan DeliveryResult, 1)
	secondRequest, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	require.NoError(t, pool.Request(NewTransaction(ChannelDeliverable(done), secondRequest)))

	select {
	case result := <-done:
		assert.Equal(t, KindResponse, result.Kind)
		result.Response.Body.Close()
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panicking deliverable")
	}
}

package httppool

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xmidt-org/httppool-core/clock"
)

// workerHandle is the Pool's view of a worker: the inbound channel used to
// hand off transactions, an atomic in-flight counter used for admission
// accounting, and synchronization for startup/shutdown.
type workerHandle struct {
	// inFlight is mutated by the pool (increment on admit, via CAS) and by
	// the worker (decrement on free). It is the sole piece of state shared
	// between a Pool and a Worker. Kept first in the struct so the 64-bit
	// atomic operations on it stay naturally aligned on 32-bit platforms.
	inFlight int64

	id int

	inbox chan *Transaction

	ready chan struct{}
	done  chan struct{}
}

// completion is produced by a per-transaction goroutine and consumed by the
// worker's event loop.
type completion struct {
	id       uint64
	response *http.Response
	err      error
	duration time.Duration
	timedOut bool
}

// Worker is a single-threaded event loop owning one *http.Client and its
// keep-alive cache.  It multiplexes many concurrently in-flight HTTP
// transactions, each run on its own goroutine that also arms that
// transaction's deadline timer, while the in-flight set and the handling of
// completions are only ever touched by the loop goroutine itself.
type Worker struct {
	id     int
	config Config
	client *http.Client
	clock  clock.Interface
	logger *zap.Logger

	listeners []Listener

	handle *workerHandle

	inFlight    map[uint64]*Transaction
	nextID      uint64
	completions chan completion
}

func newWorker(id int, config Config, handle *workerHandle, listeners []Listener) *Worker {
	return &Worker{
		id:          id,
		config:      config,
		client:      newClient(config),
		clock:       config.clock(),
		logger:      config.logger(),
		listeners:   listeners,
		handle:      handle,
		inFlight:    make(map[uint64]*Transaction, config.maxTransactionsPerWorker()),
		completions: make(chan completion, config.maxTransactionsPerWorker()),
	}
}

// spawn starts the worker's event loop on a new goroutine. It returns once
// the goroutine has been started; callers wait on handle.ready to know the
// loop is actually polling.
func (w *Worker) spawn() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("worker panicked, dropping remaining in-flight transactions",
					zap.Int("worker", w.id),
					zap.Any("panic", r),
				)
				w.dropRemaining()
			}

			close(w.handle.done)
		}()

		close(w.handle.ready)
		w.logger.Info("worker starting", zap.String("pool", w.config.name()), zap.Int("worker", w.id))
		w.run()
		w.logger.Info("worker shutdown complete", zap.String("pool", w.config.name()), zap.Int("worker", w.id))
	}()
}

// run is the event loop: it selects among new inbound messages, and
// completions (which fold together HTTP completion and timeout expiry,
// since both are produced by the same per-transaction goroutine). Once the
// inbox is closed, it stops selecting on it and only drains completions
// until the in-flight set empties.
func (w *Worker) run() {
	inboxOpen := true

	for inboxOpen || len(w.inFlight) > 0 {
		if inboxOpen {
			select {
			case txn, ok := <-w.handle.inbox:
				if !ok {
					inboxOpen = false
					continue
				}

				w.admit(txn)

			case c := <-w.completions:
				w.handleCompletion(c)
			}
		} else {
			c := <-w.completions
			w.handleCompletion(c)
		}
	}
}

func (w *Worker) admit(txn *Transaction) {
	w.nextID++
	id := w.nextID
	txn.id = id

	w.inFlight[id] = txn
	dispatch(w.listeners, EventStart, nil)

	go w.runTransaction(id, txn)
}

// runTransaction executes one HTTP transaction on its own goroutine,
// racing the client's response against the per-transaction timer. This is
// the concrete stand-in for a single-threaded reactor multiplexing I/O and
// timers: the timer and the HTTP completion are the two events being
// raced, and only their outcome crosses back into the worker's own
// goroutine via w.completions.
func (w *Worker) runTransaction(id uint64, txn *Transaction) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("transaction panicked",
				zap.Int("worker", w.id),
				zap.Uint64("transaction", id),
				zap.Any("panic", r),
			)

			select {
			case w.completions <- completion{id: id, err: panicError{r}}:
			default:
			}
		}
	}()

	ctx, cancel := context.WithCancel(txn.Request.Context())
	defer cancel()

	request := txn.Request.WithContext(ctx)

	start := w.clock.Now()
	timer := w.clock.NewTimer(w.config.transactionTimeout())
	defer timer.Stop()

	type result struct {
		response *http.Response
		err      error
	}

	done := make(chan result, 1)
	go func() {
		response, err := w.client.Do(request)
		done <- result{response, err}
	}()

	select {
	case r := <-done:
		w.completions <- completion{id: id, response: r.response, err: r.err, duration: w.clock.Now().Sub(start)}

	case <-timer.C():
		cancel()
		w.completions <- completion{id: id, timedOut: true, duration: w.config.transactionTimeout()}
	}
}

func (w *Worker) handleCompletion(c completion) {
	txn, ok := w.inFlight[c.id]
	if !ok {
		// runTransaction's select already settles the race between the
		// timer and the HTTP completion and sends one completion per id,
		// so an unknown id is not expected; it is dropped silently.
		if c.response != nil && c.response.Body != nil {
			c.response.Body.Close()
		}

		return
	}

	delete(w.inFlight, c.id)

	var outcome DeliveryResult
	switch {
	case c.timedOut:
		outcome = timeoutResult(c.duration)
	case c.err != nil:
		if c.response != nil && c.response.Body != nil {
			c.response.Body.Close()
		}

		outcome = errorResult(c.err, c.duration)
	default:
		outcome = responseResult(c.response, c.duration)
	}

	w.logger.Debug("transaction completed",
		zap.String("pool", w.config.name()),
		zap.Int("worker", w.id),
		zap.Uint64("transaction", c.id),
		zap.String("correlationId", txn.CorrelationID()),
		zap.Stringer("outcome", outcome.Kind),
		zap.Duration("duration", outcome.Duration),
	)

	w.safeComplete(txn.Deliverable, outcome)
	dispatch(w.listeners, EventFinish, completionError(outcome))
	w.notifySlotFreed()
}

// safeComplete invokes a Deliverable's Complete method, containing any
// panic so a misbehaving caller cannot take the worker down.
func (w *Worker) safeComplete(deliverable Deliverable, result DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("deliverable panicked",
				zap.Int("worker", w.id),
				zap.Any("panic", r),
			)
		}
	}()

	deliverable.Complete(result)
}

func (w *Worker) notifySlotFreed() {
	atomic.AddInt64(&w.handle.inFlight, -1)
}

// dropRemaining delivers DeliveryResult{Kind: KindDropped} to every
// transaction still in flight when the worker's event loop terminates
// abnormally.
func (w *Worker) dropRemaining() {
	for id, txn := range w.inFlight {
		w.safeComplete(txn.Deliverable, droppedResult())
		delete(w.inFlight, id)
		w.notifySlotFreed()
	}
}

func completionError(result DeliveryResult) error {
	if result.Kind == KindError || result.Kind == KindDropped {
		return result.Err
	}

	return nil
}

// panicError adapts a recovered panic value to an error.
type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return "panic: " + formatPanic(p.value)
}

func formatPanic(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}

	if s, ok := v.(string); ok {
		return s
	}

	return "unknown panic"
}

package httppool

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/xmidt-org/httppool-core/semaphore"
)

// Pool is the admission controller for a fixed set of Workers.  Request is
// safe for concurrent use; it never blocks waiting for capacity, instead
// failing fast with ErrPoolFull or ErrPoolClosed.
type Pool struct {
	config Config
	logger *zap.Logger

	workers []*workerHandle

	// next is a rotating start index used to spread admission across
	// workers instead of always favoring worker 0.
	next uint64

	// closeSignal tracks the open/closed transition with the same
	// CAS-plus-closed-channel pattern semaphore.Closeable uses, so Request
	// can test for closure with a non-blocking select instead of a bare
	// bool.  mutex still guards the actual race between Request's channel
	// send and Shutdown closing that channel: Request holds the read lock
	// for the duration of its send, and Shutdown takes the write lock
	// before closing anything, so no send can be in flight once
	// closeSignal reports closed.
	mutex       sync.RWMutex
	closeSignal semaphore.Closeable
}

// New constructs a Pool and starts its workers.  It returns ErrNoWorkers if
// config.Workers is explicitly negative.  An unset (zero) Workers is not an
// error: it defaults to DefaultWorkers.
func New(config Config) (*Pool, error) {
	if config.Workers < 0 {
		return nil, ErrNoWorkers
	}

	workerCount := config.workers()
	listeners := config.Listeners

	p := &Pool{
		config:      config,
		logger:      config.logger(),
		workers:     make([]*workerHandle, workerCount),
		closeSignal: semaphore.NewCloseable(1),
	}

	for i := 0; i < workerCount; i++ {
		handle := &workerHandle{
			id:    i,
			inbox: make(chan *Transaction, config.maxTransactionsPerWorker()),
			ready: make(chan struct{}),
			done:  make(chan struct{}),
		}

		p.workers[i] = handle

		worker := newWorker(i, config, handle, listeners)
		worker.spawn()
	}

	for _, handle := range p.workers {
		<-handle.ready
	}

	p.logger.Info("pool started",
		zap.String("pool", config.name()),
		zap.Int("workers", workerCount),
		zap.Int("maxTransactionsPerWorker", config.maxTransactionsPerWorker()),
	)

	return p, nil
}

// Request attempts to admit txn onto the least-loaded worker that still has
// free capacity.  Admission never blocks: if every worker is at
// Config.MaxTransactionsPerWorker, Request fails immediately with
// ErrPoolFull wrapped in a *RequestError carrying txn back to the caller.
func (p *Pool) Request(txn *Transaction) error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	select {
	case <-p.closeSignal.Closed():
		dispatch(p.config.Listeners, EventReject, ErrPoolClosed)
		return &RequestError{Transaction: txn, reason: ErrPoolClosed}
	default:
	}

	handle := p.selectWorker()
	if handle == nil {
		p.logger.Warn("pool full, rejecting transaction", zap.String("pool", p.config.name()))
		dispatch(p.config.Listeners, EventReject, ErrPoolFull)
		return &RequestError{Transaction: txn, reason: ErrPoolFull}
	}

	handle.inbox <- txn
	dispatch(p.config.Listeners, EventQueue, nil)
	return nil
}

// selectWorker picks the worker with the fewest in-flight transactions that
// is still below MaxTransactionsPerWorker and admits onto it by CAS-incrementing
// its in-flight count.  The scan starts from a rotating offset, so ties go to
// the first tied worker in rotation order rather than always to worker 0.  If
// the CAS loses a race, the scan is repeated.  It returns nil when every
// worker is at capacity.
func (p *Pool) selectWorker() *workerHandle {
	limit := int64(p.config.maxTransactionsPerWorker())
	count := len(p.workers)
	start := int(atomic.AddUint64(&p.next, 1)) % count

	for {
		var best *workerHandle
		bestCount := limit
		for i := 0; i < count; i++ {
			handle := p.workers[(start+i)%count]
			if current := atomic.LoadInt64(&handle.inFlight); current < bestCount {
				best, bestCount = handle, current
			}
		}

		if best == nil {
			return nil
		}

		if atomic.CompareAndSwapInt64(&best.inFlight, bestCount, bestCount+1) {
			return best
		}
	}
}

// Shutdown closes every worker's inbound channel and blocks until all
// in-flight transactions have been delivered and every worker's event loop
// has exited.  It is idempotent: calling it more than once is a no-op after
// the first call.
func (p *Pool) Shutdown() {
	p.mutex.Lock()
	if p.closeSignal.Close() == semaphore.ErrClosed {
		p.mutex.Unlock()
		return
	}

	for _, handle := range p.workers {
		close(handle.inbox)
	}
	p.mutex.Unlock()

	for _, handle := range p.workers {
		<-handle.done
	}

	p.logger.Info("pool shutdown complete", zap.String("pool", p.config.name()))
}

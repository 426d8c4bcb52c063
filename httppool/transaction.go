package httppool

import (
	"net/http"

	"github.com/segmentio/ksuid"
)

// Transaction pairs a fully-formed HTTP request with the Deliverable that
// will receive its terminal result.  A Transaction is owned by exactly one
// component at a time: the producer that created it, then the Pool's
// inbound queue, then a worker's in-flight set, until its Deliverable is
// invoked and the Transaction ceases to exist.
type Transaction struct {
	// Request is the HTTP request to execute.
	Request *http.Request

	// Deliverable receives this Transaction's terminal DeliveryResult
	// exactly once.
	Deliverable Deliverable

	// id is assigned by the worker on admission; it is unique only within
	// that worker, not across the pool.
	id uint64

	// correlationID is an externally-observable identifier, independent of
	// worker-local ids, attached to log fields and traces.
	correlationID ksuid.KSUID
}

// NewTransaction constructs a Transaction from a Deliverable and an
// already-built *http.Request.
func NewTransaction(deliverable Deliverable, request *http.Request) *Transaction {
	return &Transaction{
		Request:       request,
		Deliverable:   deliverable,
		correlationID: ksuid.New(),
	}
}

// CorrelationID returns the externally-observable identifier assigned to
// this Transaction when it was created.
func (t *Transaction) CorrelationID() string {
	return t.correlationID.String()
}

package httppool

import (
	"fmt"
	"net/http"
	"time"
)

// ResultKind discriminates the variants of a DeliveryResult.
type ResultKind int

const (
	// KindResponse indicates an HTTP response was received.  Any status
	// code, including 4xx/5xx, produces a Response result; the Deliverable
	// decides what counts as success.
	KindResponse ResultKind = iota

	// KindTimeout indicates the per-transaction deadline elapsed before a
	// response was produced.
	KindTimeout

	// KindError indicates a transport or protocol failure reported by the
	// HTTP client, distinct from an HTTP-level response.
	KindError

	// KindDropped indicates the transaction was abandoned without
	// completing.  This should only occur when a worker terminates
	// unexpectedly with transactions still in flight.
	KindDropped
)

func (k ResultKind) String() string {
	switch k {
	case KindResponse:
		return "Response"
	case KindTimeout:
		return "Timeout"
	case KindError:
		return "HyperError"
	case KindDropped:
		return "Dropped"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// DeliveryResult is the terminal value passed to a Deliverable exactly once
// per Transaction. At most one of Response or Err is populated, depending
// on Kind; KindTimeout and KindDropped results carry neither.
type DeliveryResult struct {
	Kind ResultKind

	// Response is set only when Kind == KindResponse.  The Deliverable
	// owns the response and is responsible for closing its Body.
	Response *http.Response

	// Err is set only when Kind == KindError.
	Err error

	// Duration is the wall-clock time between the worker beginning the
	// transaction and this result being produced.  For KindTimeout, this
	// equals the configured transaction timeout.
	Duration time.Duration
}

func responseResult(response *http.Response, duration time.Duration) DeliveryResult {
	return DeliveryResult{Kind: KindResponse, Response: response, Duration: duration}
}

func timeoutResult(duration time.Duration) DeliveryResult {
	return DeliveryResult{Kind: KindTimeout, Duration: duration}
}

func errorResult(err error, duration time.Duration) DeliveryResult {
	return DeliveryResult{Kind: KindError, Err: err, Duration: duration}
}

func droppedResult() DeliveryResult {
	return DeliveryResult{Kind: KindDropped}
}

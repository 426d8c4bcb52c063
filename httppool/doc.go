/*
Package httppool provides a fixed-size pool of single-threaded, event-driven
HTTP worker goroutines.  Producers submit Transactions to a Pool, which
routes each one to a worker with free capacity and never blocks: a pool at
capacity rejects new work immediately rather than queuing it.

Each worker owns its own *http.Client (and therefore its own connection
pool and keep-alive cache), so traffic routed to different workers will not
share connections.  Callers who need connection reuse for a given origin
should configure a single worker.
*/
package httppool

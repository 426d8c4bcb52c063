package httppool

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// newClient builds the *http.Client owned by a single worker.  Each worker
// gets its own *http.Transport and therefore its own connection pool and
// keep-alive cache; this is never shared across workers.
func newClient(config Config) *http.Client {
	var roundTripper http.RoundTripper = config.RoundTripper
	if roundTripper == nil {
		roundTripper = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: config.maxTransactionsPerWorker(),
			IdleConnTimeout:     config.keepAliveTimeout(),
		}
	}

	if config.Tracing {
		roundTripper = otelhttp.NewTransport(roundTripper)
	}

	return &http.Client{
		Transport: roundTripper,
	}
}

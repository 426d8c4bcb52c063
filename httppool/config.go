package httppool

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xmidt-org/httppool-core/clock"
)

const (
	// DefaultWorkers is used when Config.Workers is not positive.
	DefaultWorkers = 10

	// DefaultMaxTransactionsPerWorker is used when
	// Config.MaxTransactionsPerWorker is not positive.
	DefaultMaxTransactionsPerWorker = 100

	// DefaultTransactionTimeout is used when Config.TransactionTimeout is
	// not positive.
	DefaultTransactionTimeout = 30 * time.Second

	// DefaultKeepAliveTimeout is used when Config.KeepAliveTimeout is not
	// positive.  It matches net/http's own DefaultTransport.IdleConnTimeout.
	DefaultKeepAliveTimeout = 90 * time.Second
)

// Config describes the immutable settings used to construct a Pool.  It is
// safe to populate directly or via xviper/viper unmarshaling.
type Config struct {
	// Name is a human-readable label for this pool, included in log fields.
	// If empty, "httppool" is used.
	Name string `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`

	// Workers is the number of independent worker event loops.  If not
	// positive, DefaultWorkers is used.
	Workers int `mapstructure:"workers" json:"workers,omitempty" yaml:"workers,omitempty"`

	// MaxTransactionsPerWorker is the hard cap on a single worker's
	// concurrent in-flight transactions.  If not positive,
	// DefaultMaxTransactionsPerWorker is used.
	MaxTransactionsPerWorker int `mapstructure:"maxTransactionsPerWorker" json:"maxTransactionsPerWorker,omitempty" yaml:"maxTransactionsPerWorker,omitempty"`

	// TransactionTimeout is the wall-clock deadline armed when a worker
	// begins executing a transaction.  If not positive,
	// DefaultTransactionTimeout is used.
	TransactionTimeout time.Duration `mapstructure:"transactionTimeout" json:"transactionTimeout,omitempty" yaml:"transactionTimeout,omitempty"`

	// KeepAliveTimeout is the idle duration after which a worker's HTTP
	// client closes a cached connection.  If not positive,
	// DefaultKeepAliveTimeout is used.
	KeepAliveTimeout time.Duration `mapstructure:"keepAliveTimeout" json:"keepAliveTimeout,omitempty" yaml:"keepAliveTimeout,omitempty"`

	// Tracing enables otelhttp instrumentation of each worker's HTTP
	// client.
	Tracing bool `mapstructure:"tracing" json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// Logger is the structured logger used for lifecycle and per-transaction
	// logging.  If nil, sallust.Default() is used.
	Logger *zap.Logger `mapstructure:"-" json:"-" yaml:"-"`

	// Clock is the time source used by workers to arm per-transaction
	// deadlines.  If nil, clock.System() is used.  Tests substitute a fake
	// clock here.
	Clock clock.Interface `mapstructure:"-" json:"-" yaml:"-"`

	// Listeners receive Queue/Reject/Start/Finish events for every
	// transaction handled by the pool.  The Pool and every worker share
	// this same slice.
	Listeners []Listener `mapstructure:"-" json:"-" yaml:"-"`

	// RoundTripper overrides the transport used to build each worker's
	// *http.Client.  If nil, a *http.Transport configured from
	// KeepAliveTimeout is used.  Tests substitute a fake or recording
	// transport here.
	RoundTripper http.RoundTripper `mapstructure:"-" json:"-" yaml:"-"`
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}

	return DefaultWorkers
}

func (c Config) maxTransactionsPerWorker() int {
	if c.MaxTransactionsPerWorker > 0 {
		return c.MaxTransactionsPerWorker
	}

	return DefaultMaxTransactionsPerWorker
}

func (c Config) transactionTimeout() time.Duration {
	if c.TransactionTimeout > 0 {
		return c.TransactionTimeout
	}

	return DefaultTransactionTimeout
}

func (c Config) keepAliveTimeout() time.Duration {
	if c.KeepAliveTimeout > 0 {
		return c.KeepAliveTimeout
	}

	return DefaultKeepAliveTimeout
}

func (c Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return defaultLogger()
}

func (c Config) clock() clock.Interface {
	if c.Clock != nil {
		return c.Clock
	}

	return clock.System()
}

func (c Config) name() string {
	if len(c.Name) > 0 {
		return c.Name
	}

	return "httppool"
}

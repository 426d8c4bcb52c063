package httppool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xmidt-org/httppool-core/clock"
	"github.com/xmidt-org/httppool-core/clock/clocktest"
)

func TestConfigDefaults(t *testing.T) {
	var c Config

	assert.Equal(t, DefaultWorkers, c.workers())
	assert.Equal(t, DefaultMaxTransactionsPerWorker, c.maxTransactionsPerWorker())
	assert.Equal(t, DefaultTransactionTimeout, c.transactionTimeout())
	assert.Equal(t, DefaultKeepAliveTimeout, c.keepAliveTimeout())
	assert.Equal(t, "httppool", c.name())
	assert.NotNil(t, c.logger())
	assert.Equal(t, clock.System(), c.clock())
}

func TestConfigOverrides(t *testing.T) {
	fakeClock := new(clocktest.Mock)

	c := Config{
		Name:                     "custom",
		Workers:                  5,
		MaxTransactionsPerWorker: 50,
		TransactionTimeout:       2 * time.Second,
		KeepAliveTimeout:         10 * time.Second,
		Logger:                   defaultLogger(),
		Clock:                    fakeClock,
	}

	assert.Equal(t, "custom", c.name())
	assert.Equal(t, 5, c.workers())
	assert.Equal(t, 50, c.maxTransactionsPerWorker())
	assert.Equal(t, 2*time.Second, c.transactionTimeout())
	assert.Equal(t, 10*time.Second, c.keepAliveTimeout())
	assert.Same(t, fakeClock, c.clock())
}

package httppool

import (
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// defaultLogger returns the package-wide fallback logger used when a Config
// does not supply one.
func defaultLogger() *zap.Logger {
	return sallust.Default()
}

// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/BerylCAtieno/gtm-studio/internal/logger"
)

// New returns a logger that writes through t.
func New(t testing.TB) *logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

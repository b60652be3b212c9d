package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a Logger that writes Debug+ logs via t.Log, for use
// in test suites.
func NewTestLogger(tb testing.TB) Logger {
	zl := zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel))
	return &impl{sugar: zl.Sugar(), atom: zap.NewAtomicLevelAt(zap.DebugLevel)}
}

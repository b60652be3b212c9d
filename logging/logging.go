// Package logging provides the structured logger used throughout the
// optimizer core: an interface of Debugw/Infow/Warnw/Errorw backed by zap,
// with named sub-loggers and a level that can be raised at runtime. It
// drops gRPC metadata propagation and network appenders since the core has
// no RPC boundary.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface used across every package in
// this module.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Sublogger(name string) Logger
	SetLevel(level zapcore.Level)
}

type impl struct {
	sugar *zap.SugaredLogger
	name  string
	atom  zap.AtomicLevel
}

// NewLogger returns a new logger named `name` that writes Info+ logs to
// stdout.
func NewLogger(name string) Logger {
	return newLogger(name, zapcore.InfoLevel)
}

// NewDebugLogger returns a new logger that writes Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newLogger(name, zapcore.DebugLevel)
}

func newLogger(name string, level zapcore.Level) Logger {
	atom := zap.NewAtomicLevelAt(level)
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), atom)
	zl := zap.New(core).Named(name)
	return &impl{sugar: zl.Sugar(), name: name, atom: atom}
}

func (i *impl) Debugw(msg string, keysAndValues ...interface{}) { i.sugar.Debugw(msg, keysAndValues...) }
func (i *impl) Infow(msg string, keysAndValues ...interface{})  { i.sugar.Infow(msg, keysAndValues...) }
func (i *impl) Warnw(msg string, keysAndValues ...interface{})  { i.sugar.Warnw(msg, keysAndValues...) }
func (i *impl) Errorw(msg string, keysAndValues ...interface{}) { i.sugar.Errorw(msg, keysAndValues...) }

func (i *impl) SetLevel(level zapcore.Level) { i.atom.SetLevel(level) }

func (i *impl) Sublogger(name string) Logger {
	newName := name
	if i.name != "" {
		newName = i.name + "." + name
	}
	return &impl{sugar: i.sugar.Desugar().Named(name).Sugar(), name: newName, atom: i.atom}
}

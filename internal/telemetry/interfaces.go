package telemetry

import "log"

// Logger is the operational log used by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a function into a Logger. A nil LoggerFunc discards.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger.
func WrapLogger(logger *log.Logger) Logger {
	if logger == nil {
		return LoggerFunc(nil)
	}
	return standardLogger{logger: logger}
}

type standardLogger struct {
	logger *log.Logger
}

func (l standardLogger) Printf(format string, args ...any) {
	l.logger.Printf(format, args...)
}

// StandardLogger exposes the wrapped logger for components that need one.
func (l standardLogger) StandardLogger() *log.Logger {
	return l.logger
}

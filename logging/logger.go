// Package logging provides loggers carried through context, scoped to
// named modules.
package logging

// Logger emits log messages.
type Logger interface {
	Debugf(msg string, args ...interface{})
	Debugw(msg string, keyValuePairs ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// LoggerForModuleFunc returns a logger for a given module.
type LoggerForModuleFunc func(module string) Logger

type nullLogger struct{}

func (nullLogger) Debugf(msg string, args ...interface{})          {}
func (nullLogger) Debugw(msg string, keyValuePairs ...interface{}) {}
func (nullLogger) Infof(msg string, args ...interface{})           {}
func (nullLogger) Warnf(msg string, args ...interface{})           {}
func (nullLogger) Errorf(msg string, args ...interface{})          {}

// NullLogger discards all log messages.
func NullLogger() Logger {
	return nullLogger{}
}

func getNullLogger(module string) Logger {
	return nullLogger{}
}

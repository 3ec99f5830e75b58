package logging

import "context"

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger returns a derived context with an associated logger factory.
func WithLogger(ctx context.Context, l LoggerForModuleFunc) context.Context {
	if l == nil {
		l = getNullLogger
	}

	return context.WithValue(ctx, loggerKey, l)
}

// GetContextLoggerFunc returns a function that fetches the logger for the
// given module from a context. Intended usage:
//
//	var log = logging.GetContextLoggerFunc("some/module")
//
//	func foo(ctx context.Context) {
//		log(ctx).Debugf("...")
//	}
func GetContextLoggerFunc(module string) func(ctx context.Context) Logger {
	return func(ctx context.Context) Logger {
		if f, ok := ctx.Value(loggerKey).(LoggerForModuleFunc); ok {
			return f(module)
		}

		return nullLogger{}
	}
}

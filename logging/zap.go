package logging

import "go.uber.org/zap"

// zap's sugared logger satisfies Logger directly.
var _ Logger = (*zap.SugaredLogger)(nil)

// Zap returns a LoggerForModuleFunc backed by the given zap logger, with
// the module attached as the logger name.
func Zap(base *zap.Logger) LoggerForModuleFunc {
	sugar := base.Sugar()

	return func(module string) Logger {
		return sugar.Named(module)
	}
}

// ZapDevelopment returns a LoggerForModuleFunc writing human-readable
// output to stderr at the given level.
func ZapDevelopment(level zap.AtomicLevel) (LoggerForModuleFunc, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return Zap(base), nil
}

package logging

import "fmt"

type printfLogger struct {
	printf func(msg string, args ...interface{})
}

func (l *printfLogger) Debugf(msg string, args ...interface{}) { l.printf(msg, args...) }
func (l *printfLogger) Infof(msg string, args ...interface{})  { l.printf(msg, args...) }
func (l *printfLogger) Warnf(msg string, args ...interface{})  { l.printf(msg, args...) }
func (l *printfLogger) Errorf(msg string, args ...interface{}) { l.printf(msg, args...) }

func (l *printfLogger) Debugw(msg string, keyValuePairs ...interface{}) {
	l.printf(msg + flattenPairs(keyValuePairs))
}

// Printf returns a LoggerForModuleFunc that uses the given printf-style
// function to print log output, each message prefixed with the module name.
func Printf(printf func(msg string, args ...interface{})) LoggerForModuleFunc {
	return func(module string) Logger {
		return WithPrefix("["+module+"] ", &printfLogger{printf})
	}
}

func flattenPairs(keyValuePairs []interface{}) string {
	result := ""

	for i := 0; i+1 < len(keyValuePairs); i += 2 {
		result += fmt.Sprintf(" %v=%v", keyValuePairs[i], keyValuePairs[i+1])
	}

	return result
}

var _ Logger = (*printfLogger)(nil)

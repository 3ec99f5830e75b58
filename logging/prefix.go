package logging

// prefixLogger attaches a prefix to each log message.
type prefixLogger struct {
	prefix string
	inner  Logger
}

// Debugf implements Logger.
func (p *prefixLogger) Debugf(msg string, args ...interface{}) {
	p.inner.Debugf(p.prefix+msg, args...)
}

// Debugw implements Logger.
func (p *prefixLogger) Debugw(msg string, keyValuePairs ...interface{}) {
	p.inner.Debugw(p.prefix+msg, keyValuePairs...)
}

// Infof implements Logger.
func (p *prefixLogger) Infof(msg string, args ...interface{}) {
	p.inner.Infof(p.prefix+msg, args...)
}

// Warnf implements Logger.
func (p *prefixLogger) Warnf(msg string, args ...interface{}) {
	p.inner.Warnf(p.prefix+msg, args...)
}

// Errorf implements Logger.
func (p *prefixLogger) Errorf(msg string, args ...interface{}) {
	p.inner.Errorf(p.prefix+msg, args...)
}

var _ Logger = (*prefixLogger)(nil)

// WithPrefix returns a wrapper logger that attaches the given prefix to
// each message.
func WithPrefix(prefix string, logger Logger) Logger {
	return &prefixLogger{prefix, logger}
}

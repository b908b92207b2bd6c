package logger

// Logger is the logging boundary handed to the adapters. Failures that the
// host never sees as return values (dropped responses, failed tracking
// posts) are reported here.
type Logger interface {
	// Debug level logging
	Debugf(msg string, args ...any)

	// Info level logging
	Infof(msg string, args ...any)

	// Warn level logging
	Warnf(msg string, args ...any)

	// Error level logging
	Errorf(msg string, args ...any)
}

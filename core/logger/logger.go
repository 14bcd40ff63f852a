package logger

// Logger is the logging surface used across the study pipeline. Warnings
// and errors reported through it are the non-fatal half of the error model:
// unmapped equipment, inconsistent time indexes and failed persistence.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// With returns a child logger carrying an extra field on every entry.
	With(key string, value any) Logger
}

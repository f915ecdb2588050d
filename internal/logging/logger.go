// Package logging is the structured logging layer of monarch-csv. Parsers,
// the container and commands only see Logger; logrus stays behind
// LogrusAdapter, and MockLogger records lines for tests.
package logging

// Logger writes leveled lines carrying key/value fields. The With* methods
// return a derived logger and leave the receiver untouched.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	WithError(err error) Logger
	WithField(key string, value any) Logger
	WithFields(fields ...Field) Logger

	// Fatal and Fatalf exit the process after logging.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...any)
}

// Field is one key/value pair of a log line. Keys come from the Field*
// constants so that every run logs the same names.
type Field struct {
	Key   string
	Value any
}

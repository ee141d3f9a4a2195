package logger

// Field is a single structured logging key/value pair
type Field struct {
	Key   string
	Value any
}

// Err builds a Field holding an error value under the "err" key
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// Logger defines the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

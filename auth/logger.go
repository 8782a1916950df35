package auth

import "log"

// Logger interface for pluggable logging.
// Implement this interface to integrate the auth layer with your
// application's logging system (e.g., zap, logrus, slog). If not provided in
// Config, a default logger using log.Printf will be used.
type Logger interface {
	Debug(msg string, args ...interface{}) // Debug-level logging for detailed troubleshooting
	Info(msg string, args ...interface{})  // Info-level logging for normal auth operations
	Warn(msg string, args ...interface{})  // Warn-level logging for degraded fallbacks
	Error(msg string, args ...interface{}) // Error-level logging for auth failures
}

// DefaultLogger returns the logger used when none is configured.
func DefaultLogger() Logger { return &defaultLogger{} }

// defaultLogger implements Logger using standard library log
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	log.Printf("[DEBUG] "+msg, args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	log.Printf("[INFO] "+msg, args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	log.Printf("[WARN] "+msg, args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
}

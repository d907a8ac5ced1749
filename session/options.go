package session

import (
	"log/slog"
	"time"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each generation. Zero means no limit beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

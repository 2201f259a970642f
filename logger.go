package event

import (
	"context"
	"fmt"
	"log/slog"
)

type logger interface {
	WithField(key string, value any) logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (l noopLogger) WithField(string, any) logger { return l }

func (noopLogger) Debugf(string, ...any) {}

func (noopLogger) Infof(string, ...any) {}

func (noopLogger) Warnf(string, ...any) {}

func (noopLogger) Errorf(string, ...any) {}

// slogLogger adapts a *slog.Logger to the logger interface. Fields added with
// WithField become slog attributes.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l so it can be passed to WithLogger. A nil l uses
// slog.Default().
func NewSlogLogger(l *slog.Logger) logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) WithField(key string, value any) logger {
	return &slogLogger{l: s.l.With(key, value)}
}

func (s *slogLogger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.log(slog.LevelDebug, format, args...)
}

func (s *slogLogger) Infof(format string, args ...any) {
	s.log(slog.LevelInfo, format, args...)
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.log(slog.LevelWarn, format, args...)
}

func (s *slogLogger) Errorf(format string, args ...any) {
	s.log(slog.LevelError, format, args...)
}

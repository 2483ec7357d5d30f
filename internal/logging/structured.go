// Package logging provides structured JSON logging for pwm components.
// Records go to stderr through log/slog and stay silent below warn unless
// PWM_LOG_LEVEL or --verbose lowers the threshold.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel maps a user supplied level name to a Level, defaulting to warn.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelInfo:
		return LevelInfo
	case LevelError:
		return LevelError
	default:
		return LevelWarn
	}
}

var (
	mu   sync.RWMutex
	base = newBase(os.Stderr, LevelWarn)
)

func newBase(w io.Writer, level Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.slog()}))
}

// Setup redirects every logger to w at the given minimum level.
func Setup(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()
	base = newBase(w, level)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Logger provides structured logging
type Logger struct {
	component string
	requestID string
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

// WithContext returns a copy carrying the request id stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		component: l.component,
		requestID: GetRequestID(ctx),
	}
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error, duration time.Duration) {
	logger := current()
	if !logger.Enabled(context.Background(), level.slog()) {
		return
	}

	attrs := make([]slog.Attr, 0, 4+len(extra))
	attrs = append(attrs, slog.String("component", l.component))
	if l.requestID != "" {
		attrs = append(attrs, slog.String("request_id", l.requestID))
	}
	if duration > 0 {
		attrs = append(attrs, slog.Int64("duration_ms", duration.Milliseconds()))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range extra {
		attrs = append(attrs, slog.Any(k, v))
	}
	logger.LogAttrs(context.Background(), level.slog(), event, attrs...)
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil, 0)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil, 0)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err, 0)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err, 0)
}

// Failed logs a remote call that was swallowed at a client boundary.
func (l *Logger) Failed(event string, start time.Time, extra map[string]interface{}, err error) {
	l.log(LevelDebug, event, extra, err, time.Since(start))
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil, time.Since(start))
}

// Package runtime ties command lifetime to process signals.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joss/pwm/internal/logging"
)

// ShutdownFunc is a cleanup step run when the command ends.
type ShutdownFunc func(ctx context.Context) error

// DefaultShutdownTimeout bounds all cleanup steps together.
const DefaultShutdownTimeout = 5 * time.Second

// ShutdownManager cancels the command context on SIGINT or SIGTERM and
// runs registered cleanup steps once, last registered first.
type ShutdownManager struct {
	mu       sync.Mutex
	handlers []namedHandler
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
	stop     func()
	log      *logging.Logger
}

type namedHandler struct {
	name string
	fn   ShutdownFunc
}

// NewShutdownManager derives the command context from parent.
func NewShutdownManager(parent context.Context, timeout time.Duration) *ShutdownManager {
	ctx, cancel := context.WithCancel(parent)
	return &ShutdownManager{
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		stop:    func() {},
		log:     logging.New("runtime"),
	}
}

// Register adds a cleanup step.
func (m *ShutdownManager) Register(name string, fn ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: fn})
}

// Context is cancelled when shutdown begins.
func (m *ShutdownManager) Context() context.Context {
	return m.ctx
}

// ListenForSignals cancels the context on the first SIGINT or SIGTERM.
func (m *ShutdownManager) ListenForSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	done := make(chan struct{})
	m.stop = func() {
		signal.Stop(sigs)
		close(done)
	}

	go func() {
		select {
		case sig := <-sigs:
			m.log.Info("signal_received", map[string]interface{}{"signal": sig.String()})
			m.cancel()
		case <-done:
		}
	}()
}

// Shutdown cancels the context and runs the cleanup steps. Later calls
// do nothing.
func (m *ShutdownManager) Shutdown() {
	m.once.Do(m.performShutdown)
}

func (m *ShutdownManager) performShutdown() {
	m.stop()
	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	handlers := make([]namedHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		start := time.Now()
		if err := h.fn(ctx); err != nil {
			m.log.Failed("shutdown_handler_failed", start, map[string]interface{}{"handler": h.name}, err)
			continue
		}
		m.log.TimedEvent("shutdown_handler", start, map[string]interface{}{"handler": h.name})
		if ctx.Err() != nil {
			m.log.Warn("shutdown_timeout", map[string]interface{}{"timeout": m.timeout.String()}, ctx.Err())
			return
		}
	}
}

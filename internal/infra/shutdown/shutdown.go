// Package shutdown provides graceful shutdown handling.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Hook is a named cleanup step run during shutdown.
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []Hook
	mu      sync.Mutex
	trigger chan string
	once    sync.Once
	done    chan struct{}
	logger  logger.Logger
}

// NewHandler creates a new shutdown handler. log may be nil.
func NewHandler(timeout time.Duration, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		timeout: timeout,
		hooks:   make([]Hook, 0),
		trigger: make(chan string, 1),
		done:    make(chan struct{}),
		logger:  log,
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Fn: fn})
}

// Trigger starts shutdown without a signal, e.g. after a fatal server
// error. Only the first call has an effect.
func (h *Handler) Trigger(reason string) {
	select {
	case h.trigger <- reason:
	default:
	}
}

// Wait blocks until SIGINT, SIGTERM, Trigger or ctx cancellation, then
// runs the hooks under the configured timeout. It returns the joined
// hook errors.
func (h *Handler) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var reason string
	select {
	case sig := <-sigCh:
		reason = "signal " + sig.String()
	case reason = <-h.trigger:
	case <-ctx.Done():
		reason = "context canceled"
	}

	return h.run(reason)
}

func (h *Handler) run(reason string) error {
	var err error
	h.once.Do(func() {
		defer close(h.done)

		h.logger.Info("shutting down", "reason", reason, "timeout", h.timeout)

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			hook := hooks[i]
			start := time.Now()
			if hookErr := hook.Fn(ctx); hookErr != nil {
				h.logger.Error("shutdown hook failed", "hook", hook.Name, "error", hookErr)
				errs = append(errs, fmt.Errorf("%s: %w", hook.Name, hookErr))
				continue
			}
			h.logger.Debug("shutdown hook done", "hook", hook.Name, "elapsed", time.Since(start))
		}
		err = errors.Join(errs...)
	})
	return err
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

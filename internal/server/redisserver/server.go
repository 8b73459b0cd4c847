package redisserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// DefaultReadBufferSize is the size of a single socket read.
const DefaultReadBufferSize = 512

// Config holds the Redis server configuration.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string
	// ReadBufferSize is the maximum number of bytes taken per socket read.
	ReadBufferSize int
	// MaxBulkLen, MaxArrayLen and MaxDepth bound incoming frames.
	// Zero selects the resp package defaults.
	MaxBulkLen  int
	MaxArrayLen int
	MaxDepth    int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:6379",
		ReadBufferSize: DefaultReadBufferSize,
		MaxBulkLen:     resp.DefaultMaxBulkLen,
		MaxArrayLen:    resp.DefaultMaxArrayLen,
		MaxDepth:       resp.DefaultMaxDepth,
	}
}

func (c *Config) parser() *resp.Parser {
	return &resp.Parser{
		MaxBulkLen:  c.MaxBulkLen,
		MaxArrayLen: c.MaxArrayLen,
		MaxDepth:    c.MaxDepth,
	}
}

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Server accepts TCP connections and runs one Session per connection.
type Server struct {
	cfg     *Config
	exec    *Executor
	logger  logger.Logger
	metrics *metric.Registry

	mu      sync.Mutex
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a new server. log and metrics may be nil.
func New(cfg *Config, exec *Executor, log logger.Logger, metrics *metric.Registry) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		cfg:     cfg,
		exec:    exec,
		logger:  log,
		metrics: metrics,
	}
}

// Start binds the listener and starts accepting connections in the
// background. A bind failure is returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	// Sessions outlive Start's ctx; they end only when their connection does.
	sessionCtx := logger.WithLogger(context.WithoutCancel(ctx), s.logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx, sessionCtx, ln)
	}()

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown closes the listener and waits for the accept loop to exit.
// Sessions already running are not interrupted.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	s.mu.Lock()
	if s.ln != nil {
		closeErr = s.ln.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if errors.Is(closeErr, net.ErrClosed) {
		return nil
	}
	return closeErr
}

func (s *Server) acceptLoop(ctx, sessionCtx context.Context, ln net.Listener) {
	var backoff time.Duration

	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.logger.Error("accept failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		go s.serveConn(sessionCtx, c)
	}
}

func (s *Server) serveConn(ctx context.Context, c net.Conn) {
	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	sess := NewSession(c, s.exec, s.cfg)
	s.logger.Debug("connection accepted", "conn_id", sess.ID(), "remote", c.RemoteAddr().String())
	_ = sess.Serve(ctx)
}

package localserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Server represents the local socket server.
type Server struct {
	path   string
	exec   *redisserver.Executor
	cfg    *redisserver.Config
	logger logger.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a local server on socketPath. cfg supplies buffer sizes
// and frame limits; its Addr is ignored.
func New(socketPath string, exec *redisserver.Executor, cfg *redisserver.Config, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		path:   socketPath,
		exec:   exec,
		cfg:    cfg,
		logger: log,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// Start binds the socket and accepts connections in the background.
// A stale socket file left by a previous process is removed first.
func (s *Server) Start(ctx context.Context) error {
	if err := removeStaleSocket(s.path); err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", s.path)
	if err != nil {
		return fmt.Errorf("localserver: listen %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		ln.Close()
		return fmt.Errorf("localserver: chmod %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("local socket listening", "path", s.path)

	// Sessions outlive Start's ctx; they end when Shutdown closes them.
	sessionCtx := logger.WithLogger(context.WithoutCancel(ctx), s.logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(sessionCtx, ln)
	}()
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "error", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			sess := redisserver.NewSession(conn, s.exec, s.cfg)
			s.logger.Debug("local connection accepted", "conn_id", sess.ID())
			_ = sess.Serve(ctx)
		}()
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Shutdown stops accepting, closes open connections and waits for
// their sessions to end. The socket file is removed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.running.Store(false)
	var closeErr error
	if s.listener != nil {
		closeErr = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
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

// removeStaleSocket deletes path if it is a socket. Any other file is
// left alone and reported.
func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("localserver: stat %s: %w", path, err)
	}
	if info.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("localserver: %s exists and is not a socket", path)
	}
	return os.Remove(path)
}

package redisserver

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Session serves one client connection: read until a full frame is
// buffered, execute it, write the reply, repeat.
//
// A Session handles one request at a time. Distinct sessions share only
// the executor's store.
type Session struct {
	id     string
	conn   io.ReadWriteCloser
	exec   *Executor
	parser *resp.Parser

	buf   []byte // bytes received but not yet consumed by a complete frame
	chunk []byte // read scratch space
	eof   bool
}

// NewSession creates a session over conn. cfg may be nil.
func NewSession(conn io.ReadWriteCloser, exec *Executor, cfg *Config) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	size := cfg.ReadBufferSize
	if size <= 0 {
		size = DefaultReadBufferSize
	}

	return &Session{
		id:     ulid.Make().String(),
		conn:   conn,
		exec:   exec,
		parser: cfg.parser(),
		buf:    make([]byte, 0, size),
		chunk:  make([]byte, size),
	}
}

// ID returns the connection id used in logs.
func (s *Session) ID() string {
	return s.id
}

// Serve runs the session until the peer closes the connection or it
// fails. It returns nil when the peer closed cleanly, the parse error on
// a protocol violation, or the I/O error that ended it. conn is always
// closed on return.
//
// Serve does not watch ctx for cancellation; closing conn is the only
// way to stop a session early. ctx supplies the logger.
func (s *Session) Serve(ctx context.Context) error {
	defer s.conn.Close()

	log := logger.FromContext(ctx).WithContext(logger.WithConnID(ctx, s.id))

	for {
		v, n, err := s.parser.Parse(s.buf)
		switch {
		case err == nil:
			cmd := ToCommand(v)
			reply := s.exec.Execute(cmd)
			if _, err := reply.WriteTo(s.conn); err != nil {
				log.Debug("connection write failed", "error", err)
				return err
			}
			log.Debug("command executed", "command", commandLabel(cmd), "reply", reply.Kind.String())
			s.consume(n)
			continue

		case errors.Is(err, resp.ErrIncomplete):
			// need more bytes

		default:
			s.exec.metrics.IncProtocolErrors()
			_, _ = protocolErrorReply(err).WriteTo(s.conn)
			log.Warn("protocol error, closing connection", "error", err, "buffered", len(s.buf))
			return err
		}

		if s.eof {
			log.Debug("connection closed by peer", "pending", len(s.buf))
			return nil
		}

		m, err := s.conn.Read(s.chunk)
		s.buf = append(s.buf, s.chunk[:m]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.eof = true
				continue
			}
			log.Debug("connection read failed", "error", err)
			return err
		}
	}
}

// consume drops the first n bytes of the buffer, keeping the rest for
// the next frame.
func (s *Session) consume(n int) {
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
}

// protocolErrorReply is the best-effort reply sent before a session is
// closed for a malformed frame.
func protocolErrorReply(err error) resp.Value {
	detail := strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
	if detail == err.Error() {
		detail = "invalid frame"
	}
	return resp.ErrorValue("ERR Protocol error: " + detail)
}

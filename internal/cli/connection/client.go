// Package connection provides the RESP client used by respkv-cli.
package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

// DefaultTimeout bounds dialing and each request when the caller's
// context has no deadline.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Do after the server closed the connection
// without a complete reply.
var ErrClosed = errors.New("connection: closed by server")

// Client sends commands to a respkv server over one TCP connection.
// A Client is not safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
	buf     []byte
	chunk   []byte
}

// NewClient creates a client for addr. The connection is opened on the
// first request.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		chunk:   make([]byte, 4096),
	}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Connect dials the server if not already connected.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	c.conn = conn
	c.buf = c.buf[:0]
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Do sends args as an array of bulk strings and returns the reply.
// Error replies are returned as values, not Go errors. Transport and
// protocol failures close the connection.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.Value{}, errors.New("connection: empty command")
	}
	if err := c.Connect(ctx); err != nil {
		return resp.Value{}, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Value{}, c.fail(err)
	}

	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkStringValue(a)
	}
	if _, err := resp.ArrayValue(elems...).WriteTo(c.conn); err != nil {
		return resp.Value{}, c.fail(fmt.Errorf("write: %w", err))
	}

	return c.readReply()
}

func (c *Client) readReply() (resp.Value, error) {
	for {
		v, n, err := resp.Parse(c.buf)
		if err == nil {
			rest := copy(c.buf, c.buf[n:])
			c.buf = c.buf[:rest]
			return v, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return resp.Value{}, c.fail(fmt.Errorf("read reply: %w", err))
		}

		m, err := c.conn.Read(c.chunk)
		c.buf = append(c.buf, c.chunk[:m]...)
		if err != nil {
			if m > 0 {
				continue
			}
			if errors.Is(err, net.ErrClosed) || isEOF(err) {
				return resp.Value{}, c.fail(ErrClosed)
			}
			return resp.Value{}, c.fail(fmt.Errorf("read: %w", err))
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (c *Client) fail(err error) error {
	_ = c.Close()
	return err
}

package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits applied when a Parser field is left at zero.
const (
	// DefaultMaxBulkLen matches the stock Redis proto-max-bulk-len (512MB).
	DefaultMaxBulkLen = 512 * 1024 * 1024

	// DefaultMaxArrayLen bounds the element count of a single array frame.
	DefaultMaxArrayLen = 1024 * 1024

	// DefaultMaxDepth bounds array nesting so hostile input cannot grow the stack.
	DefaultMaxDepth = 32

	// maxHeaderLen is the longest "<type><int64>" header line we wait for.
	maxHeaderLen = 32
)

var (
	// ErrIncomplete means the buffer holds a prefix of a frame; retry with more bytes.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrProtocol means the buffer can never become a valid frame.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded is a protocol error caused by a declared size above a limit.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

var crlf = []byte("\r\n")

// Parser decodes frames from a byte buffer without consuming it.
//
// A Parser holds only limits and may be shared between goroutines.
type Parser struct {
	MaxBulkLen  int
	MaxArrayLen int
	MaxDepth    int
}

var defaultParser = &Parser{}

// Parse decodes one frame from the start of buf using the default limits.
func Parse(buf []byte) (Value, int, error) {
	return defaultParser.Parse(buf)
}

// Parse decodes one frame from the start of buf.
//
// On success it returns the frame and the number of bytes it occupies.
// It returns ErrIncomplete when buf is a strict prefix of a frame, and an
// error wrapping ErrProtocol when it is not a prefix of any frame. buf is
// never modified or retained, so the caller can append to it and retry
// from the same starting point.
func (p *Parser) Parse(buf []byte) (Value, int, error) {
	v, n, err := p.parse(buf, 0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

func (p *Parser) parse(buf []byte, depth int) (Value, int, error) {
	if len(buf) == 0 {
		return Value{}, 0, ErrIncomplete
	}

	switch buf[0] {
	case '+':
		line, n, err := readLine(buf[1:])
		if err != nil {
			return Value{}, 0, err
		}
		return SimpleStringValue(string(line)), n + 1, nil
	case '-':
		line, n, err := readLine(buf[1:])
		if err != nil {
			return Value{}, 0, err
		}
		return ErrorValue(string(line)), n + 1, nil
	case ':':
		line, n, err := readHeader(buf)
		if err != nil {
			return Value{}, 0, err
		}
		i, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			return Value{}, 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
		}
		return IntegerValue(i), n, nil
	case '$':
		return p.parseBulk(buf)
	case '*':
		return p.parseArray(buf, depth)
	default:
		return Value{}, 0, fmt.Errorf("%w: unrecognized frame type %q", ErrProtocol, buf[0])
	}
}

func (p *Parser) parseBulk(buf []byte) (Value, int, error) {
	line, n, err := readHeader(buf)
	if err != nil {
		return Value{}, 0, err
	}
	length, err := parseLength(line)
	if err != nil {
		return Value{}, 0, fmt.Errorf("%w: invalid bulk length", err)
	}
	if length == -1 {
		return NullValue(), n, nil
	}
	if length > int64(p.maxBulkLen()) {
		return Value{}, 0, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, length, p.maxBulkLen())
	}

	end := n + int(length)
	if len(buf) < end+2 {
		return Value{}, 0, ErrIncomplete
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return Value{}, 0, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}

	payload := make([]byte, length)
	copy(payload, buf[n:end])
	return BulkValue(payload), end + 2, nil
}

func (p *Parser) parseArray(buf []byte, depth int) (Value, int, error) {
	if depth >= p.maxDepth() {
		return Value{}, 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, p.maxDepth())
	}

	line, n, err := readHeader(buf)
	if err != nil {
		return Value{}, 0, err
	}
	count, err := parseLength(line)
	if err != nil {
		return Value{}, 0, fmt.Errorf("%w: invalid array length", err)
	}
	if count == -1 {
		return NullValue(), n, nil
	}
	if count > int64(p.maxArrayLen()) {
		return Value{}, 0, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, count, p.maxArrayLen())
	}

	elems := make([]Value, 0, min(int(count), 16))
	off := n
	for i := int64(0); i < count; i++ {
		v, m, err := p.parse(buf[off:], depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, v)
		off += m
	}
	return ArrayValue(elems...), off, nil
}

func (p *Parser) maxBulkLen() int {
	if p.MaxBulkLen > 0 {
		return p.MaxBulkLen
	}
	return DefaultMaxBulkLen
}

func (p *Parser) maxArrayLen() int {
	if p.MaxArrayLen > 0 {
		return p.MaxArrayLen
	}
	return DefaultMaxArrayLen
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}
	return DefaultMaxDepth
}

// readLine returns the bytes before the first CRLF in buf and the number
// of bytes up to and including the CRLF.
func readLine(buf []byte) ([]byte, int, error) {
	idx := bytes.Index(buf, crlf)
	if idx < 0 {
		return nil, 0, ErrIncomplete
	}
	return buf[:idx], idx + 2, nil
}

// readHeader reads the numeric line following a type byte. The count
// includes the type byte. A header that cannot fit in maxHeaderLen bytes
// is rejected instead of buffered forever.
func readHeader(buf []byte) ([]byte, int, error) {
	line, n, err := readLine(buf[1:])
	if errors.Is(err, ErrIncomplete) && len(buf) > maxHeaderLen {
		return nil, 0, fmt.Errorf("%w: header line too long", ErrProtocol)
	}
	if err != nil {
		return nil, 0, err
	}
	if n > maxHeaderLen {
		return nil, 0, fmt.Errorf("%w: header line too long", ErrProtocol)
	}
	return line, n + 1, nil
}

// parseLength parses a declared bulk or array length. Only plain decimal
// digits and the null marker -1 are accepted.
func parseLength(line []byte) (int64, error) {
	if string(line) == "-1" {
		return -1, nil
	}
	if len(line) == 0 {
		return 0, ErrProtocol
	}
	for _, c := range line {
		if c < '0' || c > '9' {
			return 0, ErrProtocol
		}
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, ErrProtocol
	}
	return n, nil
}

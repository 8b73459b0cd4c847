// Package resp provides the RESP2 value model and codec used by respkv.
//
// The package is split in two halves:
//
//   - value.go: the Value tagged union and its exact wire encoding
//   - parser.go: an incremental parser that works on a caller-owned buffer
//
// The parser never consumes input. It reports how many bytes a complete
// frame occupies, or ErrIncomplete when more bytes are needed, so callers
// discard bytes only after a whole top-level frame has been decoded:
//
//	v, n, err := resp.Parse(buf)
//	switch {
//	case errors.Is(err, resp.ErrIncomplete):
//		// read more and retry with the same buf
//	case err != nil:
//		// protocol error, the stream is unusable
//	default:
//		buf = buf[n:]
//	}
package resp

// Package resp implements the RESP2 value model and wire codec.
package resp

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// Null is the null bulk string ("$-1\r\n").
	Null Kind = iota
	SimpleString
	Error
	Integer
	BulkString
	Array
)

// String returns the RESP name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case SimpleString:
		return "simple-string"
	case Error:
		return "error"
	case Integer:
		return "integer"
	case BulkString:
		return "bulk-string"
	case Array:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single RESP frame.
//
// Exactly one payload field is meaningful for a given Kind:
// Str for SimpleString and Error, Int for Integer, Bulk for BulkString,
// Elems for Array. The zero Value is Null.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Bulk  []byte
	Elems []Value
}

// SimpleStringValue returns a simple string frame. s must not contain CR or LF.
func SimpleStringValue(s string) Value {
	return Value{Kind: SimpleString, Str: s}
}

// ErrorValue returns an error frame. s must not contain CR or LF.
func ErrorValue(s string) Value {
	return Value{Kind: Error, Str: s}
}

// IntegerValue returns an integer frame.
func IntegerValue(n int64) Value {
	return Value{Kind: Integer, Int: n}
}

// BulkValue returns a bulk string frame holding b.
// A nil b still encodes as an empty bulk string, not Null.
func BulkValue(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{Kind: BulkString, Bulk: b}
}

// BulkStringValue returns a bulk string frame holding s.
func BulkStringValue(s string) Value {
	return Value{Kind: BulkString, Bulk: []byte(s)}
}

// ArrayValue returns an array frame holding elems.
func ArrayValue(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: Array, Elems: elems}
}

// NullValue returns the null bulk string.
func NullValue() Value {
	return Value{Kind: Null}
}

// Text returns the textual payload of a SimpleString, Error or BulkString.
func (v Value) Text() string {
	switch v.Kind {
	case SimpleString, Error:
		return v.Str
	case BulkString:
		return string(v.Bulk)
	default:
		return ""
	}
}

// AppendEncode appends the wire form of v to dst and returns the extended slice.
func (v Value) AppendEncode(dst []byte) []byte {
	switch v.Kind {
	case SimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.Str...)
		return append(dst, '\r', '\n')
	case Error:
		dst = append(dst, '-')
		dst = append(dst, v.Str...)
		return append(dst, '\r', '\n')
	case Integer:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, '\r', '\n')
	case BulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Bulk)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.Bulk...)
		return append(dst, '\r', '\n')
	case Array:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Elems)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.Elems {
			dst = e.AppendEncode(dst)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

// Encode returns the wire form of v.
func (v Value) Encode() []byte {
	return v.AppendEncode(nil)
}

// WriteTo writes the complete wire form of v to w in a single Write call.
func (v Value) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(v.Encode())
	return int64(n), err
}

// Equal reports whether v and o are the same frame.
// Nil and empty payloads compare equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case SimpleString, Error:
		return v.Str == o.Str
	case Integer:
		return v.Int == o.Int
	case BulkString:
		return bytes.Equal(v.Bulk, o.Bulk)
	case Array:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders v for logs and test failures, not for the wire.
func (v Value) String() string {
	switch v.Kind {
	case SimpleString:
		return v.Str
	case Error:
		return "(error) " + v.Str
	case Integer:
		return "(integer) " + strconv.FormatInt(v.Int, 10)
	case BulkString:
		return strconv.Quote(string(v.Bulk))
	case Array:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "(nil)"
	}
}

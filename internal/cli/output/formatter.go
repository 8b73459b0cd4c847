// Package output provides output formatting for respkv-cli.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Formatter writes a reply.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

// ReplyError is how an error reply appears in structured output.
type ReplyError struct {
	Error string `json:"error" yaml:"error"`
}

// ToData converts a reply into plain Go values for structured encoders:
// strings, int64, nil, []any and ReplyError.
func ToData(v resp.Value) any {
	switch v.Kind {
	case resp.SimpleString:
		return v.Str
	case resp.Error:
		return ReplyError{Error: v.Str}
	case resp.Integer:
		return v.Int
	case resp.BulkString:
		return string(v.Bulk)
	case resp.Array:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = ToData(e)
		}
		return out
	default:
		return nil
	}
}

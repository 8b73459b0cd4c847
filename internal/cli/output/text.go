package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

// TextFormatter renders replies the way redis-cli does.
type TextFormatter struct{}

// Format writes v followed by a newline.
func (f *TextFormatter) Format(w io.Writer, v resp.Value) error {
	var b strings.Builder
	writeText(&b, v, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeText(b *strings.Builder, v resp.Value, indent int) {
	switch v.Kind {
	case resp.SimpleString:
		b.WriteString(v.Str)
	case resp.Error:
		b.WriteString("(error) ")
		b.WriteString(v.Str)
	case resp.Integer:
		b.WriteString("(integer) ")
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case resp.BulkString:
		b.WriteString(strconv.Quote(string(v.Bulk)))
	case resp.Array:
		if len(v.Elems) == 0 {
			b.WriteString("(empty array)\n")
			return
		}
		width := len(strconv.Itoa(len(v.Elems)))
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", indent))
			}
			fmt.Fprintf(b, "%*d) ", width, i+1)
			writeText(b, e, indent+width+2)
		}
		return
	default:
		b.WriteString("(nil)")
	}
	b.WriteByte('\n')
}

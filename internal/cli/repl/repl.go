package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/protocol/resp"
)

// ExecFunc sends one command and returns the server reply.
type ExecFunc func(ctx context.Context, args []string) (resp.Value, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	out       io.Writer
	prompt    string
	history   *History
	formatter output.Formatter
	exec      ExecFunc
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.out = out
	}
}

// WithPrompt sets the prompt printed before each line.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithFormatter sets the reply formatter.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) {
		r.formatter = f
	}
}

// New creates a REPL that sends commands through exec.
func New(exec ExecFunc, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		out:       os.Stdout,
		prompt:    "respkv> ",
		formatter: &output.TextFormatter{},
		exec:      exec,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run starts the REPL loop. It returns nil on EOF, "exit" or "quit",
// and when ctx is cancelled between lines.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(r.out, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.out)
				return nil
			}
			continue
		}

		r.history.Add(line)

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
		if eof {
			return nil
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	v, err := r.exec(ctx, args)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.out, v)
}

// History returns the history store.
func (r *REPL) History() *History {
	return r.history
}

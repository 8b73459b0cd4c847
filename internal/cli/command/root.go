package command

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/protocol/resp"
)

const (
	metaFlags  = "flags"
	metaClient = "client"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "respkv-cli",
		Usage:     "Command-line client for respkv",
		ArgsUsage: "[COMMAND [ARG...]]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			SetCommand(),
			GetCommand(),
			RawCommand(),
			ConfigCommand(),
		},
		Before: before,
		After:  after,
		Action: rootAction,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "respkv server address (host:port)",
			EnvVars: []string{"RESPKV_SERVER"},
			Value:   config.Default().Server,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			EnvVars: []string{"RESPKV_OUTPUT"},
			Value:   config.Default().Output,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Dial and per-request timeout",
			EnvVars: []string{"RESPKV_TIMEOUT"},
			Value:   config.Default().Timeout,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// GlobalFlags holds the effective settings after merging the config
// file with flags and environment variables.
type GlobalFlags struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	ConfigPath  string
	HistoryFile string
}

// ParseGlobalFlags loads the config file and overlays every flag that
// was set explicitly.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	if _, _, err := net.SplitHostPort(cfg.Server); err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", cfg.Server, err)
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	return &GlobalFlags{
		Server:      cfg.Server,
		Output:      format,
		Timeout:     cfg.Timeout,
		ConfigPath:  path,
		HistoryFile: cfg.HistoryFile,
	}, nil
}

func before(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	c.App.Metadata[metaFlags] = flags
	c.App.Metadata[metaClient] = connection.NewClient(flags.Server, flags.Timeout)
	return nil
}

func after(c *cli.Context) error {
	if client := clientFrom(c); client != nil {
		return client.Close()
	}
	return nil
}

func flagsFrom(c *cli.Context) *GlobalFlags {
	if f, ok := c.App.Metadata[metaFlags].(*GlobalFlags); ok {
		return f
	}
	return &GlobalFlags{Server: config.Default().Server, Output: output.FormatText, Timeout: config.Default().Timeout}
}

func clientFrom(c *cli.Context) *connection.Client {
	if client, ok := c.App.Metadata[metaClient].(*connection.Client); ok {
		return client
	}
	return nil
}

// rootAction starts the REPL, or sends the arguments as one command.
func rootAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return do(c, c.Args().Slice()...)
	}

	flags := flagsFrom(c)
	client := clientFrom(c)

	history := repl.NewHistory(flags.HistoryFile)
	if err := history.Load(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: load history: %v\n", err)
	}

	r := repl.New(
		func(ctx context.Context, args []string) (resp.Value, error) {
			ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
			defer cancel()
			return client.Do(ctx, args...)
		},
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithPrompt(flags.Server+"> "),
		repl.WithHistory(history),
		repl.WithFormatter(output.NewFormatter(flags.Output)),
	)

	err := r.Run(c.Context)
	if serr := history.Save(); serr != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: save history: %v\n", serr)
	}
	return err
}

// do sends one command, prints the reply and turns an error reply into
// exit status 1.
func do(c *cli.Context, args ...string) error {
	flags := flagsFrom(c)
	client := clientFrom(c)
	if client == nil {
		client = connection.NewClient(flags.Server, flags.Timeout)
		defer client.Close()
	}

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	v, err := client.Do(ctx, args...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	if err := output.NewFormatter(flags.Output).Format(c.App.Writer, v); err != nil {
		return err
	}
	if v.Kind == resp.Error {
		return cli.Exit("", 1)
	}
	return nil
}

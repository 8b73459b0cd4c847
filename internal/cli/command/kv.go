package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check that the server is alive",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return usageError(c, "ping takes at most one argument")
			}
			return do(c, append([]string{"PING"}, c.Args().Slice()...)...)
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to echo a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c, "echo takes exactly one argument")
			}
			return do(c, "ECHO", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring after --px milliseconds",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "Expire the key after this many milliseconds",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return usageError(c, "set takes KEY and VALUE")
			}
			args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
			if c.IsSet("px") {
				args = append(args, "PX", strconv.FormatInt(c.Int64("px"), 10))
			}
			return do(c, args...)
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch the value stored at a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return usageError(c, "get takes exactly one KEY")
			}
			return do(c, "GET", c.Args().First())
		},
	}
}

// RawCommand returns the raw command, which sends its arguments verbatim.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Aliases:   []string{"do"},
		Usage:     "Send an arbitrary command",
		ArgsUsage: "COMMAND [ARG...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError(c, "raw needs a COMMAND")
			}
			return do(c, c.Args().Slice()...)
		},
	}
}

func usageError(c *cli.Context, msg string) error {
	return cli.Exit(fmt.Sprintf("usage: %s %s %s\n%s", c.App.Name, c.Command.Name, c.Command.ArgsUsage, msg), 2)
}

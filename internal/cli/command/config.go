package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "save",
				Usage:  "Write the effective configuration to the config file",
				Action: configSave,
			},
		},
	}
}

func effectiveConfig(c *cli.Context) *config.CLIConfig {
	flags := flagsFrom(c)
	return &config.CLIConfig{
		Server:      flags.Server,
		Output:      string(flags.Output),
		Timeout:     flags.Timeout,
		HistoryFile: flags.HistoryFile,
	}
}

func configShow(c *cli.Context) error {
	encoder := yaml.NewEncoder(c.App.Writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(effectiveConfig(c)); err != nil {
		return err
	}
	return encoder.Close()
}

func configSave(c *cli.Context) error {
	path := flagsFrom(c).ConfigPath
	if err := config.Save(effectiveConfig(c), path); err != nil {
		return cli.Exit("error: save config: "+err.Error(), 1)
	}
	fmt.Fprintf(c.App.Writer, "Saved %s\n", path)
	return nil
}

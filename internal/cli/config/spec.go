package config

import "time"

// CLIConfig is the configuration for respkv-cli, stored at ~/.respkv/cli.yaml.
// Command-line flags and RESPKV_* variables take precedence over it.
type CLIConfig struct {
	Server      string        `yaml:"server"`
	Output      string        `yaml:"output"` // text, json, yaml
	Timeout     time.Duration `yaml:"timeout"`
	HistoryFile string        `yaml:"history_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Output:  "text",
		Timeout: 5 * time.Second,
	}
}

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// startServer runs a real respkv server on a loopback port.
func startServer(t *testing.T) string {
	t.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, redisserver.NewExecutor(memory.New(), nil), logger.Discard(), nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// exitCode returns the status a real process would exit with.
func (r result) exitCode() int {
	if r.err == nil {
		return 0
	}
	if ec, ok := r.err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

// runCLI runs the app against addr with an isolated config file and
// without calling os.Exit.
func runCLI(t *testing.T, addr, stdin string, args ...string) result {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := []string{
		"respkv-cli",
		"--server", addr,
		"--config", filepath.Join(dir, "cli.yaml"),
	}
	full = append(full, args...)

	err := app.Run(full)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// clearEnv hides RESPKV_* client settings from the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"RESPKV_SERVER", "RESPKV_OUTPUT", "RESPKV_TIMEOUT", "RESPKV_CLI_CONFIG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

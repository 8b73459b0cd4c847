package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/localserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command line.
type options struct {
	configFile  string
	envFile     string
	showVersion bool
	overrides   map[string]any
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("respkv-server", flag.ContinueOnError)

	opts := &options{overrides: make(map[string]any)}
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	fs.StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	// Flags that map onto configuration keys. Only flags given on the
	// command line override the other sources.
	keys := map[string]string{
		"addr":         "server.redis.addr",
		"local-socket": "server.local.socket",
		"metrics-addr": "server.metrics.addr",
		"log-level":    "log.level",
		"log-format":   "log.format",
	}
	fs.String("addr", config.DefaultRedisAddr, "RESP listen address")
	fs.String("local-socket", "", "Unix socket path for local RESP access")
	fs.String("metrics-addr", config.DefaultMetricsAddr, "HTTP listen address for /metrics, /health and /ready")
	fs.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", config.DefaultLogFormat, "Log format: json, text")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			opts.overrides[key] = f.Value.String()
		}
	})
	return opts, nil
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.showVersion {
		fmt.Printf("respkv-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.configFile)
	log.Info("effective configuration", config.LogFields(cfg)...)

	store := memory.New(memory.WithShards(cfg.Storage.Shards))

	var metrics *metric.Registry
	if cfg.Server.Metrics.Enabled {
		metrics = metric.NewRegistry()
		metrics.SetBuildInfo(info.Version, info.Commit, info.GoVersion)
		if err := metrics.Register(metric.NewStoreCollector(store)); err != nil {
			return fmt.Errorf("register store collector: %w", err)
		}
	}

	redisCfg, err := config.ToRedisConfig(cfg)
	if err != nil {
		return err
	}
	exec := redisserver.NewExecutor(store, metrics)

	ctx := context.Background()
	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	// Hooks run in reverse order of registration.
	srv := redisserver.New(redisCfg, exec, log.With("component", "redis"), metrics)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown("redis", srv.Shutdown)

	if path := cfg.Server.Local.Socket; path != "" {
		local := localserver.New(path, exec, redisCfg, log.With("component", "local"))
		if err := local.Start(ctx); err != nil {
			shutdownHandler.Trigger("local socket failed")
			_ = shutdownHandler.Wait(ctx)
			return fmt.Errorf("start local server: %w", err)
		}
		shutdownHandler.OnShutdown("local", local.Shutdown)
	}

	if metrics != nil {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Store:   store,
			Logger:  log.With("component", "http"),
		})
		httpSrv := httpserver.New(cfg.Server.Metrics.Addr, router, log.With("component", "http"))
		if err := httpSrv.Start(ctx); err != nil {
			shutdownHandler.Trigger("http server failed")
			_ = shutdownHandler.Wait(ctx)
			return fmt.Errorf("start http server: %w", err)
		}
		shutdownHandler.OnShutdown("http", httpSrv.Shutdown)
	}

	if opts.configFile != "" {
		watcher, err := watchConfig(opts, log)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop", "addr", srv.Addr().String())
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, file, .env, environment and flags, then
// validates the result.
func loadConfig(opts *options) (*config.ServerConfig, error) {
	cfg := config.Default()

	loaderOpts := []confloader.Option{}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithDotEnv(opts.envFile))
	}

	loader := confloader.NewLoader(loaderOpts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if len(opts.overrides) > 0 {
		if err := loader.LoadMap(opts.overrides); err != nil {
			return nil, fmt.Errorf("apply flags: %w", err)
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("apply flags: %w", err)
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig reloads the config file on change and applies the settings
// that can change at runtime. Today that is only log.level; other changes
// are logged and need a restart.
func watchConfig(opts *options, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(opts.configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(opts)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

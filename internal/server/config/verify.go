package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.redis.addr", cfg.Redis.Addr); err != nil {
		return err
	}

	positive := []struct {
		key   string
		value int
	}{
		{"server.redis.read_buffer_size", cfg.Redis.ReadBufferSize},
		{"server.redis.max_bulk_len", cfg.Redis.MaxBulkLen},
		{"server.redis.max_array_len", cfg.Redis.MaxArrayLen},
		{"server.redis.max_depth", cfg.Redis.MaxDepth},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.value)
		}
	}

	if cfg.Local.Socket != "" && !filepath.IsAbs(cfg.Local.Socket) {
		return fmt.Errorf("server.local.socket must be an absolute path, got %q", cfg.Local.Socket)
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == cfg.Redis.Addr {
			return fmt.Errorf("server.metrics.addr conflicts with server.redis.addr (%s)", cfg.Redis.Addr)
		}
	}

	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: invalid address %q: %w", key, addr, err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.Shards <= 0 || cfg.Shards&(cfg.Shards-1) != 0 {
		return fmt.Errorf("storage.shards must be a positive power of 2, got %d", cfg.Shards)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}

package config

import (
	"errors"

	"github.com/yndnr/respkv/internal/server/redisserver"
)

// ToRedisConfig converts ServerConfig to redisserver.Config.
func ToRedisConfig(cfg *ServerConfig) (*redisserver.Config, error) {
	if cfg == nil {
		return nil, errors.New("server config is nil")
	}

	r := cfg.Server.Redis
	return &redisserver.Config{
		Addr:           r.Addr,
		ReadBufferSize: r.ReadBufferSize,
		MaxBulkLen:     r.MaxBulkLen,
		MaxArrayLen:    r.MaxArrayLen,
		MaxDepth:       r.MaxDepth,
	}, nil
}

// LogFields flattens the effective configuration into key/value pairs
// for a single startup log line.
func LogFields(cfg *ServerConfig) []any {
	return []any{
		"redis_addr", cfg.Server.Redis.Addr,
		"read_buffer_size", cfg.Server.Redis.ReadBufferSize,
		"max_bulk_len", cfg.Server.Redis.MaxBulkLen,
		"max_array_len", cfg.Server.Redis.MaxArrayLen,
		"max_depth", cfg.Server.Redis.MaxDepth,
		"local_socket", cfg.Server.Local.Socket,
		"metrics_enabled", cfg.Server.Metrics.Enabled,
		"metrics_addr", cfg.Server.Metrics.Addr,
		"storage_shards", cfg.Storage.Shards,
		"log_level", cfg.Log.Level,
		"log_format", cfg.Log.Format,
	}
}

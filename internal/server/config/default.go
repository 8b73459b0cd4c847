package config

import (
	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/pkg/cmap"
)

// Default configuration values.
const (
	DefaultRedisAddr      = "127.0.0.1:6379"
	DefaultReadBufferSize = 512
	DefaultMetricsAddr    = "127.0.0.1:9121"

	DefaultShards = cmap.DefaultShardCount

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:           DefaultRedisAddr,
				ReadBufferSize: DefaultReadBufferSize,
				MaxBulkLen:     resp.DefaultMaxBulkLen,
				MaxArrayLen:    resp.DefaultMaxArrayLen,
				MaxDepth:       resp.DefaultMaxDepth,
			},
			Metrics: MetricsConfig{
				Enabled: false,
				Addr:    DefaultMetricsAddr,
			},
		},
		Storage: StorageSection{
			Shards: DefaultShards,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

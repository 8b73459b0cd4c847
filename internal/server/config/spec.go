// Package config defines the server configuration structure.
package config

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis   RedisConfig   `koanf:"redis"`
	Local   LocalConfig   `koanf:"local"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadBufferSize is the number of bytes taken per socket read.
	ReadBufferSize int `koanf:"read_buffer_size"`

	// Frame limits. A frame declaring a larger size closes the connection.
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`
	MaxDepth    int `koanf:"max_depth"`
}

// LocalConfig configures the Unix socket listener.
type LocalConfig struct {
	// Socket is the socket path. Empty disables the listener.
	Socket string `koanf:"socket"`
}

// MetricsConfig configures the HTTP endpoint serving /metrics, /health
// and /ready.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards is the number of lock shards (a power of 2).
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

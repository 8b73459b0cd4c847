package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr           string `koanf:"addr"`
			ReadBufferSize int    `koanf:"read_buffer_size"`
		} `koanf:"redis"`
		Metrics struct {
			Enabled bool `koanf:"enabled"`
		} `koanf:"metrics"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
		WithDotEnv("/path/to/.env"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
	if l.dotEnv != "/path/to/.env" {
		t.Errorf("dotEnv = %q, want %q", l.dotEnv, "/path/to/.env")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "0.0.0.0:6380"
    read_buffer_size: 4096
  metrics:
    enabled: true
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if addr := l.GetString("server.redis.addr"); addr != "0.0.0.0:6380" {
		t.Errorf("server.redis.addr = %q, want %q", addr, "0.0.0.0:6380")
	}
	if size := l.GetInt("server.redis.read_buffer_size"); size != 4096 {
		t.Errorf("server.redis.read_buffer_size = %d, want 4096", size)
	}
	if !l.GetBool("server.metrics.enabled") {
		t.Error("server.metrics.enabled should be true")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "127.0.0.1:7000")
	t.Setenv("RESPKV_LOG_LEVEL", "debug")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if addr := l.GetString("server.redis.addr"); addr != "127.0.0.1:7000" {
		t.Errorf("server.redis.addr = %q, want %q", addr, "127.0.0.1:7000")
	}
	if level := l.GetString("log.level"); level != "debug" {
		t.Errorf("log.level = %q, want %q", level, "debug")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if port := l.GetString("server.port"); port != "9090" {
		t.Errorf("server.port = %q, want %q", port, "9090")
	}
}

// Keys containing underscores are resolved against the target struct.
func TestLoader_Load_EnvUnderscoreKeys(t *testing.T) {
	t.Setenv("RESPKV_SERVER_REDIS_READ_BUFFER_SIZE", "2048")

	var cfg testConfig
	l := NewLoader()
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.ReadBufferSize != 2048 {
		t.Errorf("ReadBufferSize = %d, want 2048", cfg.Server.Redis.ReadBufferSize)
	}
}

// Variables sharing the prefix but naming no field, such as the CLI's
// RESPKV_SERVER, must not replace a whole section.
func TestLoader_Load_IgnoresUnknownEnv(t *testing.T) {
	t.Setenv("RESPKV_SERVER", "127.0.0.1:6379")
	t.Setenv("RESPKV_OUTPUT", "json")

	var cfg testConfig
	cfg.Server.Redis.Addr = "127.0.0.1:7777"
	l := NewLoader()
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:7777" {
		t.Errorf("Addr = %q, section was clobbered", cfg.Server.Redis.Addr)
	}
	if l.Get("output") != nil {
		t.Errorf("unknown variable was loaded: %v", l.Get("output"))
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"server.redis.addr": "localhost:3000",
		"debug":             true,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if addr := l.GetString("server.redis.addr"); addr != "localhost:3000" {
		t.Errorf("server.redis.addr = %q, want %q", addr, "localhost:3000")
	}
	if !l.GetBool("debug") {
		t.Error("debug should be true")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "from-file:6379"
    read_buffer_size: 1024
log:
  level: warn
`)
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "from-env:6379")

	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	cfg.Log.Level = "info"
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "from-env:6379" {
		t.Errorf("Addr = %q, want %q (env should override file)", cfg.Server.Redis.Addr, "from-env:6379")
	}
	if cfg.Server.Redis.ReadBufferSize != 1024 {
		t.Errorf("ReadBufferSize = %d, want 1024 from file", cfg.Server.Redis.ReadBufferSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q (file should override default)", cfg.Log.Level, "warn")
	}

	// Flags are layered last.
	if err := l.LoadMap(map[string]any{"server.redis.addr": "from-flag:6379"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Redis.Addr != "from-flag:6379" {
		t.Errorf("Addr = %q, want %q (flag should override env)", cfg.Server.Redis.Addr, "from-flag:6379")
	}
	if cfg.Server.Redis.ReadBufferSize != 1024 {
		t.Errorf("ReadBufferSize = %d, flag layer should keep file value", cfg.Server.Redis.ReadBufferSize)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	var cfg testConfig
	cfg.Server.Redis.Addr = "127.0.0.1:6379"
	cfg.Server.Redis.ReadBufferSize = 512

	l := NewLoader(WithEnvPrefix("RESPKV_TEST_DEFAULTS_"))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:6379" || cfg.Server.Redis.ReadBufferSize != 512 {
		t.Errorf("defaults lost: %+v", cfg.Server.Redis)
	}
}

func TestLoader_Load_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "RESPKV_DOTENV_LOG_LEVEL=error\nRESPKV_DOTENV_SERVER_REDIS_ADDR=10.0.0.1:6379\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	// Already-set variables win over the file.
	t.Setenv("RESPKV_DOTENV_SERVER_REDIS_ADDR", "10.0.0.2:6379")
	// Registered so t.Setenv restores (unsets) it after godotenv sets it.
	t.Setenv("RESPKV_DOTENV_LOG_LEVEL", "")
	os.Unsetenv("RESPKV_DOTENV_LOG_LEVEL")

	var cfg testConfig
	l := NewLoader(WithEnvPrefix("RESPKV_DOTENV_"), WithDotEnv(envFile))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want %q from .env", cfg.Log.Level, "error")
	}
	if cfg.Server.Redis.Addr != "10.0.0.2:6379" {
		t.Errorf("Addr = %q, want process env value", cfg.Server.Redis.Addr)
	}
}

func TestLoader_Load_DotEnvMissing(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() should fail for a missing .env file")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_AllAndKeys(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	})

	if all := l.All(); len(all) < 2 {
		t.Errorf("All() returned %d keys, want at least 2", len(all))
	}
	if keys := l.Keys(); len(keys) < 2 {
		t.Errorf("Keys() returned %d keys, want at least 2", len(keys))
	}
}

func TestEnvKeyIndex(t *testing.T) {
	idx := envKeyIndex(&testConfig{})

	want := map[string]string{
		"server_redis_addr":             "server.redis.addr",
		"server_redis_read_buffer_size": "server.redis.read_buffer_size",
		"server_metrics_enabled":        "server.metrics.enabled",
		"log_level":                     "log.level",
	}
	for k, v := range want {
		if idx[k] != v {
			t.Errorf("idx[%q] = %q, want %q", k, idx[k], v)
		}
	}
	if len(idx) != len(want) {
		t.Errorf("index has %d keys, want %d: %v", len(idx), len(want), idx)
	}

	if got := envKeyIndex(nil); len(got) != 0 {
		t.Errorf("envKeyIndex(nil) = %v, want empty", got)
	}
}

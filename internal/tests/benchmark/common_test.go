package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// KeyCounts defines the store sizes for full benchmark runs.
var KeyCounts = []int{10000, 100000, 500000, 1000000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 10000, 100000}

// newKey generates a key shaped like a session identifier.
func newKey() string {
	return "session:" + strings.ToLower(ulid.Make().String())
}

// prefillStore fills store with count keys and returns them.
func prefillStore(store *memory.Store, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = newKey()
		store.Set(keys[i], fmt.Sprintf("value-%d", i), 0)
	}
	return keys
}

// startServer runs a server on a loopback port for the duration of b.
func startServer(b *testing.B) *redisserver.Server {
	b.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, redisserver.NewExecutor(memory.New(), nil), logger.Discard(), nil)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("start server: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various store sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

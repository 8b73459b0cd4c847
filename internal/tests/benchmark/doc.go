// Package benchmark provides performance benchmarks for respkv.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run the store benchmarks at larger key counts:
//
//	go test -bench=BenchmarkStore -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Generate performance report:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee benchmark.txt
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics backs /metrics. Nil disables the route.
	Metrics *metric.Registry

	// Store is reported by /ready.
	Store metric.KeyCounter

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		handleReady(w, r, cfg.Store)
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Order: Recover -> RequestID -> AccessLog -> mux
	return Chain(mux, Recover(log), RequestID(), AccessLog(log))
}

// handleHealth handles GET /health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func handleReady(w http.ResponseWriter, r *http.Request, store metric.KeyCounter) {
	body := map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if store != nil {
		body["keys"] = store.Len()
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package metrics exposes Prometheus metrics and a health endpoint for the
// dashboard backend.
package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the aggregation engine.
type Metrics struct {
	OrdersIngested prometheus.Counter
	OrdersRejected *prometheus.CounterVec // labels: reason
	LedgerErrors   prometheus.Counter

	AggregationDur *prometheus.HistogramVec // labels: view=holdings|positions|funds|summary
	OrdersScanned  prometheus.Histogram

	// Degraded-accuracy signal: a holding or position priced off its avg
	// cost because the oracle had no quote.
	PriceFallbacks      prometheus.Counter
	QuoteSnapshotErrors prometheus.Counter

	WSClients prometheus.Gauge
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		OrdersIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_orders_ingested_total",
			Help: "Orders accepted into the ledger",
		}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_orders_rejected_total",
			Help: "Orders rejected at ingestion (by reason)",
		}, []string{"reason"}),
		LedgerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_ledger_errors_total",
			Help: "Order ledger fetch/append failures",
		}),
		AggregationDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_aggregation_duration_seconds",
			Help:    "Pure aggregation pass latency (by view)",
			Buckets: []float64{0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}, []string{"view"}),
		OrdersScanned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_orders_scanned",
			Help:    "Orders scanned per aggregation pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		PriceFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_price_fallbacks_total",
			Help: "Instruments priced at avg cost because no quote was available",
		}),
		QuoteSnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_quote_snapshot_errors_total",
			Help: "Quote snapshot loads that failed (pass ran with empty table)",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_ws_clients",
			Help: "Currently connected dashboard WebSocket clients",
		}),
	}

	prometheus.MustRegister(
		m.OrdersIngested,
		m.OrdersRejected,
		m.LedgerErrors,
		m.AggregationDur,
		m.OrdersScanned,
		m.PriceFallbacks,
		m.QuoteSnapshotErrors,
		m.WSClients,
	)

	return m
}

// HealthStatus represents the backend health.
type HealthStatus struct {
	mu sync.RWMutex

	RedisConnected bool `json:"redis_connected"`
	LedgerOK       bool `json:"ledger_ok"`

	StartedAt   time.Time `json:"started_at"`
	LastCheckAt time.Time `json:"last_check_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

func (h *HealthStatus) SetLedgerOK(v bool) {
	h.mu.Lock()
	h.LedgerOK = v
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// ServeHTTP reports health as JSON; 503 when the ledger is unreachable.
// A stale quote store only degrades accuracy, so it does not fail the probe.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	code := http.StatusOK
	if !h.LedgerOK {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	json.NewEncoder(w).Encode(struct {
		Status         string `json:"status"`
		RedisConnected bool   `json:"redis_connected"`
		LedgerOK       bool   `json:"ledger_ok"`
		Uptime         string `json:"uptime"`
	}{
		Status:         map[bool]string{true: "ok", false: "degraded"}[code == http.StatusOK],
		RedisConnected: h.RedisConnected,
		LedgerOK:       h.LedgerOK,
		Uptime:         time.Since(h.StartedAt).Round(time.Second).String(),
	})
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}

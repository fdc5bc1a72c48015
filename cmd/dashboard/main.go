package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trading-dashboardv1/config"
	"trading-dashboardv1/internal/auth"
	"trading-dashboardv1/internal/engine"
	"trading-dashboardv1/internal/gateway"
	"trading-dashboardv1/internal/logger"
	"trading-dashboardv1/internal/metrics"
	redisstore "trading-dashboardv1/internal/store/redis"
	sqlitestore "trading-dashboardv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Println("[dashboard] starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("[dashboard] no .env file, using environment")
	}
	cfg := config.Load()

	slogger := logger.Init("dashboard", slog.LevelInfo)

	// ---- Metrics & health ----
	prom := metrics.New()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// ---- Order ledger (SQLite) ----
	os.MkdirAll(filepath.Dir(cfg.LedgerDBPath), 0o755)
	ledger, err := sqlitestore.New(sqlitestore.Config{
		DBPath:                cfg.LedgerDBPath,
		DefaultOpeningBalance: cfg.DefaultOpeningBalance,
	})
	if err != nil {
		log.Fatalf("[dashboard] ledger init failed: %v", err)
	}
	defer ledger.Close()
	health.SetLedgerOK(true)

	// ---- Quote store (Redis) ----
	quotes, err := redisstore.New(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		// The engine degrades to average-cost pricing without quotes, so a
		// missing Redis is fatal only because SetQuote has nowhere to go.
		log.Fatalf("[dashboard] redis connection failed: %v", err)
	}
	defer quotes.Close()
	health.SetRedisConnected(true)

	// ---- Aggregation engine ----
	eng := engine.New(ledger, ledger, quotes, prom, slogger, engine.Config{
		TopMoversK: cfg.TopMoversK,
		RecentN:    cfg.RecentN,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- HTTP surface ----
	verifier := auth.NewVerifier(cfg.JWTSecret)
	hub := gateway.NewHub(eng, prom, cfg.PushInterval)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	gateway.RegisterRoutes(mux, eng, verifier, hub)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	// ---- Graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("[dashboard] serving at http://localhost%s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[dashboard] server error: %v", err)
		}
	}()

	<-sigCh
	log.Println("[dashboard] shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)
}

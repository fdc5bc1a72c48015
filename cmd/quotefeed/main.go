// cmd/quotefeed — Demo quote feed.
// Walks simulated last-traded prices and writes them into the shared Redis
// quote hash so the dashboard has live-ish prices without a real broker feed.
//
// Prices are stored in paise (1 INR = 100 paise), same shape a live feed
// would write.
//
// Config (env vars):
//
//	REDIS_ADDR, REDIS_PASSWORD — quote store connection
//	QUOTE_INSTRUMENTS          — comma-separated instruments to simulate
//	QUOTE_TICK_EVERY           — walk interval (default: "2s")
//	QUOTE_ALWAYS_ON            — "true" to keep walking outside market hours
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trading-dashboardv1/config"
	redisstore "trading-dashboardv1/internal/store/redis"
	"trading-dashboardv1/internal/tradingday"
)

// Seed prices in paise for the demo watchlist. Unknown instruments start
// at a flat ₹100.00.
var seedPrices = map[string]int64{
	"RELIANCE": 285050,
	"TCS":      350025,
	"INFY":     161030,
	"HDFCBANK": 152200,
	"SBIN":     43015,
	"WIPRO":    57730,
	"ITC":      20785,
	"ONGC":     11640,
}

// walkPrice applies a tiny random walk (±0.1%) to simulate price movement.
func walkPrice(price int64) int64 {
	pct := (rand.Float64()*0.2 - 0.1) / 100.0
	delta := int64(float64(price) * pct)
	next := price + delta
	if next < 100 { // floor at ₹1.00
		next = 100
	}
	return next
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Println("[quotefeed] starting demo quote feed...")

	if err := godotenv.Load(); err != nil {
		log.Println("[quotefeed] no .env file, using environment")
	}
	cfg := config.LoadFeed()

	instruments := strings.Split(cfg.Instruments, ",")
	prices := make(map[string]int64, len(instruments))
	for _, ins := range instruments {
		ins = strings.TrimSpace(ins)
		if ins == "" {
			continue
		}
		p, ok := seedPrices[ins]
		if !ok {
			p = 10000
		}
		prices[ins] = p
	}
	if len(prices) == 0 {
		log.Fatalf("[quotefeed] no instruments configured via QUOTE_INSTRUMENTS")
	}
	log.Printf("[quotefeed] simulating %d instruments every %v", len(prices), cfg.TickEvery)

	quotes, err := redisstore.New(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatalf("[quotefeed] redis connection failed: %v", err)
	}
	defer quotes.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Write seed prices once so the dashboard has a full table even
	// before the first walk tick.
	for ins, p := range prices {
		if err := quotes.SetQuote(ctx, ins, p); err != nil {
			log.Printf("[quotefeed] seed %s: %v", ins, err)
		}
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Println("[quotefeed] shutting down...")
			return
		case <-ticker.C:
			if !cfg.AlwaysOn && !tradingday.IsMarketOpen(time.Now()) {
				continue
			}
			for ins := range prices {
				prices[ins] = walkPrice(prices[ins])
				if err := quotes.SetQuote(ctx, ins, prices[ins]); err != nil {
					log.Printf("[quotefeed] write %s: %v", ins, err)
				}
			}
		}
	}
}

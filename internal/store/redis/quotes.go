// Package redis holds the current-price table for the mock market in a
// Redis hash. The dashboard engine reads the whole hash once per
// aggregation pass so every derived number in a pass sees one consistent
// price snapshot; the quote feed writes into it independently.
package redis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// quotesKey is the hash holding instrument -> last traded price in paise.
const quotesKey = "quotes:ltp"

// Config configures the quote store connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// QuoteStore reads and writes the shared quote hash.
type QuoteStore struct {
	client *goredis.Client
}

// New creates a QuoteStore and pings the server.
func New(cfg Config) (*QuoteStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[quotes] connected to redis at %s", cfg.Addr)
	return &QuoteStore{client: client}, nil
}

// Snapshot returns the full instrument -> price table as of now.
// Entries that fail to parse are skipped and logged; a malformed quote
// must not poison the whole snapshot.
func (q *QuoteStore) Snapshot(ctx context.Context) (map[string]int64, error) {
	raw, err := q.client.HGetAll(ctx, quotesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", quotesKey, err)
	}

	quotes := make(map[string]int64, len(raw))
	for instrument, v := range raw {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil || price < 0 {
			log.Printf("[quotes] skipping malformed quote %s=%q", instrument, v)
			continue
		}
		quotes[instrument] = price
	}
	return quotes, nil
}

// SetQuote writes one instrument's last traded price in paise.
func (q *QuoteStore) SetQuote(ctx context.Context, instrument string, price int64) error {
	if err := q.client.HSet(ctx, quotesKey, instrument, price).Err(); err != nil {
		return fmt.Errorf("hset %s %s: %w", quotesKey, instrument, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (q *QuoteStore) Close() error {
	return q.client.Close()
}

// Package gateway is the HTTP/WebSocket edge of the dashboard backend:
// REST endpoints for the portfolio views and a hub pushing summary
// snapshots to connected dashboards.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"trading-dashboardv1/internal/auth"
	"trading-dashboardv1/internal/engine"
	"trading-dashboardv1/internal/logger"
	"trading-dashboardv1/internal/model"
	"trading-dashboardv1/internal/tradingday"
)

// Engine is the slice of the aggregation engine the gateway needs.
// Implemented by *engine.Engine; tests supply stubs.
type Engine interface {
	GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error)
	GetPositions(ctx context.Context, ownerID string, asOf time.Time) ([]model.Position, error)
	GetFunds(ctx context.Context, ownerID string) (model.Funds, error)
	GetSummary(ctx context.Context, ownerID string) (model.Summary, error)
	ListOrders(ctx context.Context, ownerID string) ([]model.Order, error)
	Quotes(ctx context.Context) (map[string]int64, error)
	PlaceOrder(ctx context.Context, o model.Order) (model.Order, error)
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// RegisterRoutes registers all HTTP routes on the provided mux. Every
// /api route except /api/health and /api/quotes is owner-scoped and sits
// behind the auth middleware.
func RegisterRoutes(mux *http.ServeMux, eng Engine, verifier *auth.Verifier, hub *Hub) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Watchlist quote table; public like the reference dashboard's.
	mux.HandleFunc("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		quotes, err := eng.Quotes(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "quotes unavailable")
			return
		}
		out := make(map[string]float64, len(quotes))
		for ins, p := range quotes {
			out[ins] = rupees(p)
		}
		writeJSON(w, http.StatusOK, out)
	})

	protected := func(h http.HandlerFunc) http.Handler {
		return verifier.Middleware(withRequestID(h))
	}

	mux.Handle("/api/holdings", protected(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		holdings, err := eng.GetHoldings(r.Context(), auth.OwnerID(r.Context()))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		out := make([]HoldingOut, 0, len(holdings))
		for _, h := range holdings {
			out = append(out, toHoldingOut(h))
		}
		writeJSON(w, http.StatusOK, out)
	}))

	mux.Handle("/api/positions", protected(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		asOf := time.Now()
		if d := r.URL.Query().Get("date"); d != "" {
			parsed, err := time.ParseInLocation("2006-01-02", d, tradingday.IST)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
				return
			}
			asOf = parsed
		}
		positions, err := eng.GetPositions(r.Context(), auth.OwnerID(r.Context()), asOf)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		out := make([]PositionOut, 0, len(positions))
		for _, p := range positions {
			out = append(out, toPositionOut(p))
		}
		writeJSON(w, http.StatusOK, out)
	}))

	mux.Handle("/api/funds", protected(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		funds, err := eng.GetFunds(r.Context(), auth.OwnerID(r.Context()))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFundsOut(funds))
	}))

	mux.Handle("/api/summary", protected(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		summary, err := eng.GetSummary(r.Context(), auth.OwnerID(r.Context()))
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSummaryOut(summary))
	}))

	mux.Handle("/api/orders", protected(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)

		case http.MethodGet:
			orders, err := eng.ListOrders(r.Context(), auth.OwnerID(r.Context()))
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toOrdersOut(orders))

		case http.MethodPost:
			var in OrderIn
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON")
				return
			}
			placed, err := eng.PlaceOrder(r.Context(), in.toModel(auth.OwnerID(r.Context())))
			if err != nil {
				writeEngineError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toOrderOut(placed))

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}))

	if hub != nil {
		mux.Handle("/ws", verifier.Middleware(http.HandlerFunc(hub.HandleWS)))
	}
}

// withRequestID stamps a request id into the context after auth ran.
func withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := logger.GenerateRequestID(auth.OwnerID(r.Context()), time.Now())
		next(w, r.WithContext(logger.WithRequestID(r.Context(), rid)))
	}
}

// writeEngineError maps engine failures onto the HTTP error taxonomy.
func writeEngineError(w http.ResponseWriter, err error) {
	var invalid model.ErrInvalidOrder
	switch {
	case errors.Is(err, model.ErrLedgerUnavailable):
		// Recoverable: the dashboard retries or shows an empty state.
		writeError(w, http.StatusServiceUnavailable, "order ledger unavailable")
	case errors.Is(err, engine.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "insufficient funds")
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
	default:
		log.Printf("[gateway] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[gateway] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

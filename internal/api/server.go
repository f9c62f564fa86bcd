package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"eve-nexus/internal/config"
	"eve-nexus/internal/esi"
	"eve-nexus/internal/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MarketSource is the upstream data the server needs. *esi.Client implements it.
type MarketSource interface {
	Regions(ctx context.Context) ([]esi.Region, error)
	SearchItems(ctx context.Context, term string) ([]esi.ItemType, error)
	ItemInfo(ctx context.Context, typeID int32) (*esi.ItemType, error)
	MarketOrders(ctx context.Context, regionID, typeID int32) ([]esi.MarketOrder, error)
	MarketHistory(ctx context.Context, regionID, typeID int32) ([]esi.HistoryEntry, error)
	HealthCheck(ctx context.Context) bool
}

// Server is the HTTP API server that connects the ESI client and the analysis engine.
type Server struct {
	cfg     *config.Config
	esi     MarketSource
	version string
}

// NewServer creates a Server with the given config and market data source.
func NewServer(cfg *config.Config, source MarketSource, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{cfg: cfg, esi: source, version: version}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/items", s.handleItems)
	mux.HandleFunc("GET /api/market", s.handleMarket)
	mux.Handle("GET /metrics", promhttp.Handler())
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("API", fmt.Sprintf("encode response: %v", err))
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"esi":     s.esi.HealthCheck(r.Context()),
	})
}

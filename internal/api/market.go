package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"eve-nexus/internal/engine"
	"eve-nexus/internal/esi"
	"eve-nexus/internal/logger"
	"eve-nexus/internal/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	noMarketDataMsg      = "No market data found for this item in the selected region"
	noDataRecommendation = "No data available for analysis"
)

// marketResponse is the payload of GET /api/market.
type marketResponse struct {
	Error              string                     `json:"error,omitempty"`
	Orders             []esi.MarketOrder          `json:"orders"`
	History            []esi.HistoryEntry         `json:"history"`
	Analysis           *engine.Analysis           `json:"analysis"`
	Anomalies          *engine.Anomalies          `json:"anomalies"`
	TradingCalculation *engine.TradingCalculation `json:"trading_calculation"`
	Recommendation     string                     `json:"recommendation"`
	Volatility         float64                    `json:"volatility"`
	ItemInfo           *esi.ItemType              `json:"item_info,omitempty"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.esi.Regions(r.Context())
	if err != nil {
		logger.Warn("API", fmt.Sprintf("regions: %v", err))
	}
	if regions == nil {
		regions = []esi.Region{}
	}
	writeJSON(w, regions)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("popular") == "true" {
		writeJSON(w, esi.PopularItems())
		return
	}
	search := strings.TrimSpace(q.Get("search"))
	if search == "" {
		writeError(w, http.StatusBadRequest, "Search parameter is required")
		return
	}
	items, err := s.esi.SearchItems(r.Context(), search)
	if err != nil {
		logger.Warn("API", fmt.Sprintf("search %q: %v", search, err))
	}
	if items == nil {
		items = []esi.ItemType{}
	}
	writeJSON(w, items)
}

func parseID(raw string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return int32(n), nil
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("regionId") == "" || q.Get("typeId") == "" {
		writeError(w, http.StatusBadRequest, "regionId and typeId parameters are required")
		return
	}
	regionID, err := parseID(q.Get("regionId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "regionId must be a positive integer")
		return
	}
	typeID, err := parseID(q.Get("typeId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "typeId must be a positive integer")
		return
	}

	// Upstream failures degrade to empty data; the engine treats both the same.
	var (
		orders  []esi.MarketOrder
		history []esi.HistoryEntry
		info    *esi.ItemType
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		if orders, err = s.esi.MarketOrders(ctx, regionID, typeID); err != nil {
			logger.Warn("API", fmt.Sprintf("orders region=%d type=%d: %v", regionID, typeID, err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if history, err = s.esi.MarketHistory(ctx, regionID, typeID); err != nil {
			logger.Warn("API", fmt.Sprintf("history region=%d type=%d: %v", regionID, typeID, err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if info, err = s.esi.ItemInfo(ctx, typeID); err != nil {
			logger.Warn("API", fmt.Sprintf("item info type=%d: %v", typeID, err))
		}
		return nil
	})
	g.Wait()

	if orders == nil {
		orders = []esi.MarketOrder{}
	}
	if history == nil {
		history = []esi.HistoryEntry{}
	}

	if len(orders) == 0 {
		metrics.Analyses.WithLabelValues("no_data").Inc()
		writeJSON(w, marketResponse{
			Error:          noMarketDataMsg,
			Orders:         orders,
			History:        []esi.HistoryEntry{},
			Recommendation: noDataRecommendation,
		})
		return
	}

	analysis := engine.AnalyzeMarket(orders)
	anomalies := engine.DetectAnomalies(orders, history)
	resp := marketResponse{
		Orders:         orders,
		History:        history,
		Analysis:       &analysis,
		Anomalies:      &anomalies,
		Recommendation: engine.TradingRecommendation(analysis, history),
		Volatility:     engine.Volatility(history),
		ItemInfo:       info,
	}

	if raw := q.Get("investmentAmount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err == nil && amount > 0 && !math.IsInf(amount, 0) && analysis.BestBuyPrice > 0 && analysis.BestSellPrice > 0 {
			calc := engine.CalculateTradingProfit(amount, analysis.BestBuyPrice, analysis.BestSellPrice)
			resp.TradingCalculation = &calc
		}
	}

	metrics.Analyses.WithLabelValues("analyzed").Inc()
	logger.Debug("API", fmt.Sprintf("analyzed region=%d type=%d orders=%d history=%d action=%s",
		regionID, typeID, len(orders), len(history), analysis.RecommendedAction))
	writeJSON(w, resp)
}

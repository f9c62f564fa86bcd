package esi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"eve-nexus/internal/metrics"
)

// HistoryEntry represents a single day of market history for an item in a region.
type HistoryEntry struct {
	Date       string  `json:"date"`
	Average    float64 `json:"average"`
	Highest    float64 `json:"highest"`
	Lowest     float64 `json:"lowest"`
	Volume     int64   `json:"volume"`
	OrderCount int64   `json:"order_count"`
}

// MarketHistory fetches daily market history for a type in a region, oldest day first.
// Fresh cached history is returned without a network call.
func (c *Client) MarketHistory(ctx context.Context, regionID, typeID int32) ([]HistoryEntry, error) {
	useCache := c.store != nil && c.historyTTL > 0
	if useCache {
		if entries, ok := c.store.GetHistory(regionID, typeID); ok {
			metrics.HistoryCache.WithLabelValues("hit").Inc()
			return entries, nil
		}
		metrics.HistoryCache.WithLabelValues("miss").Inc()
	}

	key := fmt.Sprintf("history:%d:%d", regionID, typeID)
	v, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.fetchMarketHistory(ctx, regionID, typeID)
	})
	if err != nil {
		return nil, err
	}
	entries := v.([]HistoryEntry)
	if useCache && len(entries) > 0 {
		c.store.SetHistory(regionID, typeID, entries)
	}
	return entries, nil
}

func (c *Client) fetchMarketHistory(ctx context.Context, regionID, typeID int32) ([]HistoryEntry, error) {
	path := fmt.Sprintf("/markets/%d/history/", regionID)
	params := url.Values{"type_id": {strconv.Itoa(int(typeID))}}

	var entries []HistoryEntry
	if _, err := c.get(ctx, "history", path, params, &entries); err != nil {
		if IsNotFound(err) {
			return []HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("market history region=%d type=%d: %w", regionID, typeID, err)
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	SortHistory(entries)
	return entries, nil
}

// SortHistory orders entries chronologically in place. ESI does not guarantee the order.
func SortHistory(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

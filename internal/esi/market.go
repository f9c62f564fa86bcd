package esi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// MarketOrder mirrors the ESI market order response.
type MarketOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int32   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	SystemID     int32   `json:"system_id"`
	Price        float64 `json:"price"`
	VolumeRemain int32   `json:"volume_remain"`
	VolumeTotal  int32   `json:"volume_total"`
	MinVolume    int32   `json:"min_volume"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Duration     int32   `json:"duration"`
	Issued       string  `json:"issued"`
	Range        string  `json:"range"`
	RegionID     int32   `json:"-"` // set by us
}

// MarketOrders fetches all buy and sell orders for a type in a region.
// Pages beyond the first (X-Pages) are fetched concurrently and appended in page order.
// ESI 404 ("type or region not found") is reported as no data.
// Concurrent calls for the same region and type share one upstream fetch.
func (c *Client) MarketOrders(ctx context.Context, regionID, typeID int32) ([]MarketOrder, error) {
	key := fmt.Sprintf("orders:%d:%d", regionID, typeID)
	v, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		return c.fetchMarketOrders(ctx, regionID, typeID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]MarketOrder), nil
}

func (c *Client) fetchMarketOrders(ctx context.Context, regionID, typeID int32) ([]MarketOrder, error) {
	path := fmt.Sprintf("/markets/%d/orders/", regionID)
	params := func(page int) url.Values {
		return url.Values{
			"order_type": {"all"},
			"type_id":    {strconv.Itoa(int(typeID))},
			"page":       {strconv.Itoa(page)},
		}
	}

	var page1 []MarketOrder
	hdr, err := c.get(ctx, "orders", path, params(1), &page1)
	if err != nil {
		if IsNotFound(err) {
			return []MarketOrder{}, nil
		}
		return nil, fmt.Errorf("market orders region=%d type=%d: %w", regionID, typeID, err)
	}

	totalPages := 1
	if p := hdr.Get("X-Pages"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 1 {
			totalPages = n
		}
	}

	pages := make([][]MarketOrder, totalPages)
	pages[0] = page1
	if totalPages > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for p := 2; p <= totalPages; p++ {
			g.Go(func() error {
				var data []MarketOrder
				if _, err := c.get(gctx, "orders", path, params(p), &data); err != nil {
					return fmt.Errorf("market orders region=%d type=%d page=%d: %w", regionID, typeID, p, err)
				}
				pages[p-1] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	all := make([]MarketOrder, 0, len(page1)*totalPages)
	for _, data := range pages {
		for i := range data {
			data[i].RegionID = regionID
		}
		all = append(all, data...)
	}
	return all, nil
}

package esi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"eve-nexus/internal/logger"

	"golang.org/x/sync/errgroup"
)

// detailConcurrency bounds in-flight detail lookups; the scheduler still spaces them.
const detailConcurrency = 4

// Region is a market region.
type Region struct {
	RegionID    int32  `json:"region_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ItemType is an inventory type that can be traded.
type ItemType struct {
	TypeID      int32  `json:"type_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Published   bool   `json:"published"`
}

type universeDetail struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

// Regions returns the first MaxRegions regions with their details, sorted by name.
// Regions whose details cannot be fetched or have no name are skipped.
func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var ids []int32
	if _, err := c.get(ctx, "regions", "/universe/regions/", nil, &ids); err != nil {
		return nil, fmt.Errorf("region ids: %w", err)
	}
	if c.maxRegions > 0 && len(ids) > c.maxRegions {
		ids = ids[:c.maxRegions]
	}

	details, err := c.fetchDetails(ctx, "region", "/universe/regions/%d/", ids)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(ids))
	for i, id := range ids {
		d := details[i]
		if d == nil || d.Name == "" {
			continue
		}
		regions = append(regions, Region{RegionID: id, Name: d.Name, Description: d.Description})
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return strings.ToLower(regions[i].Name) < strings.ToLower(regions[j].Name)
	})
	return regions, nil
}

// SearchItems finds published inventory types matching term, sorted by name.
func (c *Client) SearchItems(ctx context.Context, term string) ([]ItemType, error) {
	params := url.Values{
		"categories": {"inventory_type"},
		"search":     {term},
		"strict":     {"false"},
	}
	var res struct {
		InventoryType []int32 `json:"inventory_type"`
	}
	if _, err := c.get(ctx, "search", "/search/", params, &res); err != nil {
		if IsNotFound(err) {
			return []ItemType{}, nil
		}
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	ids := res.InventoryType
	if c.maxSearchResults > 0 && len(ids) > c.maxSearchResults {
		ids = ids[:c.maxSearchResults]
	}

	details, err := c.fetchDetails(ctx, "type", "/universe/types/%d/", ids)
	if err != nil {
		return nil, err
	}

	items := make([]ItemType, 0, len(ids))
	for i, id := range ids {
		d := details[i]
		if d == nil || !d.Published {
			continue
		}
		items = append(items, ItemType{TypeID: id, Name: d.Name, Description: d.Description, Published: true})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// ItemInfo fetches a single inventory type. Returns nil, nil when ESI has no such type.
func (c *Client) ItemInfo(ctx context.Context, typeID int32) (*ItemType, error) {
	var d universeDetail
	if err := c.getUniverse(ctx, "type", fmt.Sprintf("/universe/types/%d/", typeID), &d); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("item info %d: %w", typeID, err)
	}
	return &ItemType{TypeID: typeID, Name: d.Name, Description: d.Description, Published: d.Published}, nil
}

// fetchDetails looks up universe details for ids; result[i] is nil when ids[i] failed.
// Only context cancellation aborts the whole batch.
func (c *Client) fetchDetails(ctx context.Context, endpoint, pathFmt string, ids []int32) ([]*universeDetail, error) {
	out := make([]*universeDetail, len(ids))
	var failed sync.Map

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			var d universeDetail
			if err := c.getUniverse(gctx, endpoint, fmt.Sprintf(pathFmt, id), &d); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Store(id, err)
				return nil
			}
			out[i] = &d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	failed.Range(func(k, v interface{}) bool {
		logger.Warn("ESI", fmt.Sprintf("%s %v details: %v", endpoint, k, v))
		return true
	})
	return out, nil
}

var popularItems = []ItemType{
	{TypeID: 34, Name: "Tritanium", Published: true},
	{TypeID: 35, Name: "Pyerite", Published: true},
	{TypeID: 36, Name: "Mexallon", Published: true},
	{TypeID: 37, Name: "Isogen", Published: true},
	{TypeID: 38, Name: "Nocxium", Published: true},
	{TypeID: 39, Name: "Zydrine", Published: true},
	{TypeID: 40, Name: "Megacyte", Published: true},
	{TypeID: 11399, Name: "Morphite", Published: true},
	{TypeID: 2456, Name: "Dominix", Published: true},
	{TypeID: 587, Name: "Rifter", Published: true},
	{TypeID: 596, Name: "Caracal", Published: true},
	{TypeID: 2006, Name: "Typhoon", Published: true},
	{TypeID: 3756, Name: "Catalyst", Published: true},
	{TypeID: 16236, Name: "Procurer", Published: true},
	{TypeID: 17738, Name: "Retriever", Published: true},
	{TypeID: 22544, Name: "Mackinaw", Published: true},
}

// PopularItems returns a fixed list of commonly traded items. No network call is made.
func PopularItems() []ItemType {
	out := make([]ItemType, len(popularItems))
	copy(out, popularItems)
	return out
}

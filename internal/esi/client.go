package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eve-nexus/internal/config"
	"eve-nexus/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// HistoryCache is a cache for market history data.
type HistoryCache interface {
	GetHistory(regionID int32, typeID int32) ([]HistoryEntry, bool)
	SetHistory(regionID int32, typeID int32, entries []HistoryEntry)
}

// UniverseStore caches static universe documents (region and type details) keyed by request path.
type UniverseStore interface {
	GetUniverse(path string) ([]byte, bool)
	SetUniverse(path string, body []byte)
}

// Store is the cache backend used by Client. internal/db implements it.
type Store interface {
	HistoryCache
	UniverseStore
}

// StatusError is returned when ESI answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ESI %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is an ESI 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is a rate-limited ESI HTTP client.
type Client struct {
	http             *http.Client
	baseURL          string
	userAgent        string
	scheduler        *Scheduler
	group            singleflight.Group
	store            Store
	historyTTL       time.Duration
	maxRegions       int
	maxSearchResults int
}

// NewClient creates an ESI client from cfg with its own request scheduler.
// store may be nil, in which case nothing is cached.
func NewClient(cfg *config.Config, store Store) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Client{
		http:             &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:          strings.TrimRight(cfg.ESIBaseURL, "/"),
		userAgent:        cfg.UserAgent,
		scheduler:        NewScheduler(cfg.RequestDelay),
		store:            store,
		historyTTL:       cfg.HistoryCacheTTL,
		maxRegions:       cfg.MaxRegions,
		maxSearchResults: cfg.MaxSearchResults,
	}
}

// Scheduler returns the client's request scheduler.
func (c *Client) Scheduler() *Scheduler {
	return c.scheduler
}

// HealthCheck pings ESI to verify connectivity.
func (c *Client) HealthCheck(ctx context.Context) bool {
	var status json.RawMessage
	_, err := c.get(ctx, "status", "/status/", nil, &status)
	return err == nil
}

// shared runs fn once per key across concurrent callers. The fetch is detached
// from any single caller's cancellation; each caller stops waiting when its own
// ctx is done. The HTTP client timeout still bounds the shared fetch.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return fn(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// get waits for a scheduler slot, fetches path with params and decodes JSON into dst.
// endpoint is the metrics label for the request.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, dst interface{}) (http.Header, error) {
	if err := c.scheduler.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("datasource", "tranquility")
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ESIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ESIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()
	metrics.ESIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.Header, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return resp.Header, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.Header, nil
}

// getUniverse fetches a static universe document, serving it from the store when present.
func (c *Client) getUniverse(ctx context.Context, endpoint, path string, dst interface{}) error {
	if c.store != nil {
		if body, ok := c.store.GetUniverse(path); ok {
			if err := json.Unmarshal(body, dst); err == nil {
				return nil
			}
		}
	}

	var raw json.RawMessage
	if _, err := c.get(ctx, endpoint, path, nil, &raw); err != nil {
		return err
	}
	if c.store != nil {
		c.store.SetUniverse(path, raw)
	}
	return json.Unmarshal(raw, dst)
}

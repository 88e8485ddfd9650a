// Package indexer reads farm, plot, and inventory snapshots from the off-chain
// indexer. Snapshots lag the chain; callers re-fetch after transactions.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
	"github.com/osse101/farmclock/internal/metrics"
	"github.com/osse101/farmclock/internal/validation"
)

// Config configures a Client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	RateLimit float64
	// Schemas checks payloads before decoding; validation.Default() when nil
	Schemas validation.SchemaValidator
}

// Client handles communication with the indexer API
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cache   *snapshotCache
	schemas validation.SchemaValidator
}

// NewClient creates a new indexer client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Schemas == nil {
		cfg.Schemas = validation.Default()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		cache:   newSnapshotCache(cfg.CacheSize, cfg.CacheTTL),
		schemas: cfg.Schemas,
	}
}

// Farms lists the farms owned by account
func (c *Client) Farms(ctx context.Context, owner string) ([]domain.Farm, error) {
	key := cacheKeyFarms + owner
	if v, ok := cacheGet[[]domain.Farm](c.cache, key); ok {
		c.hit(ctx, EndpointFarms, key)
		return v, nil
	}

	var resp farmsResponse
	path := PathFarms + "?" + url.Values{QueryParamOwner: {owner}}.Encode()
	if err := c.get(ctx, EndpointFarms, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return []domain.Farm{}, nil
		}
		return nil, err
	}

	farms := make([]domain.Farm, 0, len(resp.Farms))
	for _, f := range resp.Farms {
		farms = append(farms, f.toDomain())
	}
	c.cache.set(key, farms)
	return farms, nil
}

// Farm returns one farm of owner by id
func (c *Client) Farm(ctx context.Context, owner, farmID string) (domain.Farm, error) {
	farms, err := c.Farms(ctx, owner)
	if err != nil {
		return domain.Farm{}, err
	}
	for _, f := range farms {
		if f.ID == farmID {
			return f, nil
		}
	}
	return domain.Farm{}, fmt.Errorf("%w: %s", domain.ErrFarmNotFound, farmID)
}

// Plots returns the plots staked to farmID, from cache when fresh
func (c *Client) Plots(ctx context.Context, farmID string) ([]domain.Plot, error) {
	if v, ok := cacheGet[[]domain.Plot](c.cache, cacheKeyPlots+farmID); ok {
		c.hit(ctx, EndpointPlots, farmID)
		return v, nil
	}
	return c.FetchPlots(ctx, farmID)
}

// FetchPlots always goes to the network and refreshes the cache
func (c *Client) FetchPlots(ctx context.Context, farmID string) ([]domain.Plot, error) {
	var resp plotsResponse
	if err := c.get(ctx, EndpointPlots, fmt.Sprintf(PathFarmPlotsFmt, url.PathEscape(farmID)), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFarmNotFound, farmID)
		}
		return nil, err
	}

	plots := make([]domain.Plot, 0, len(resp.Plots))
	for _, p := range resp.Plots {
		plot, err := p.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
		}
		if plot.FarmID == "" {
			plot.FarmID = farmID
		}
		plots = append(plots, plot)
	}
	c.cache.set(cacheKeyPlots+farmID, plots)
	return plots, nil
}

// Plot returns one plot of a farm
func (c *Client) Plot(ctx context.Context, farmID, plotID string) (domain.Plot, error) {
	plots, err := c.Plots(ctx, farmID)
	if err != nil {
		return domain.Plot{}, err
	}
	for _, p := range plots {
		if p.ID == plotID {
			return p, nil
		}
	}
	return domain.Plot{}, fmt.Errorf("%w: %s", domain.ErrPlotNotFound, plotID)
}

// Inventory returns account's seeds and token balance
func (c *Client) Inventory(ctx context.Context, account string) (domain.Inventory, error) {
	key := cacheKeyInventory + account
	if v, ok := cacheGet[domain.Inventory](c.cache, key); ok {
		c.hit(ctx, EndpointInventory, key)
		return v, nil
	}

	var resp inventoryDTO
	if err := c.get(ctx, EndpointInventory, fmt.Sprintf(PathInventoryFmt, url.PathEscape(account)), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return domain.Inventory{Account: account}, nil
		}
		return domain.Inventory{}, err
	}
	inv := resp.toDomain()
	if inv.Account == "" {
		inv.Account = account
	}
	c.cache.set(key, inv)
	return inv, nil
}

// Invalidate drops cached plots for farmID
func (c *Client) Invalidate(ctx context.Context, farmID string) {
	c.cache.remove(cacheKeyPlots + farmID)
	logger.FromContext(ctx).Debug(LogMsgCacheInvalidate, "farm_id", farmID)
}

// InvalidateAccount drops the cached farm list and inventory of account
func (c *Client) InvalidateAccount(ctx context.Context, account string) {
	c.cache.remove(cacheKeyFarms + account)
	c.cache.remove(cacheKeyInventory + account)
	logger.FromContext(ctx).Debug(LogMsgCacheInvalidate, "account", account)
}

var errNotFound = errors.New("not found")

func (c *Client) hit(ctx context.Context, endpoint, key string) {
	metrics.IndexerRequests.WithLabelValues(endpoint, metrics.ResultCached).Inc()
	logger.FromContext(ctx).Debug(LogMsgCacheHit, "key", key)
}

// get performs one GET and decodes the JSON body into out. Transport errors
// and 5xx responses are domain.ErrNetworkOrIndexerLag; 404 is errNotFound.
func (c *Client) get(ctx context.Context, endpoint, path string, out any) (err error) {
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFailure
		}
		metrics.IndexerRequests.WithLabelValues(endpoint, result).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: "+ErrMsgIndexerStatus, domain.ErrNetworkOrIndexerLag, resp.StatusCode, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: "+ErrMsgIndexerStatus, domain.ErrInvalidInput, resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
	}
	// endpoint names double as schema names
	if err := c.schemas.ValidateBytes(body, endpoint); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrNetworkOrIndexerLag, ErrMsgDecodeResponse, err)
	}

	logger.FromContext(ctx).Debug(LogMsgFetched, "endpoint", endpoint)
	return nil
}

// Package chain talks to the blockchain RPC node for the authoritative head-block time.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/logger"
)

// Info is the subset of get_info the scheduler needs
type Info struct {
	ChainID       string `json:"chain_id"`
	HeadBlockNum  int64  `json:"head_block_num"`
	HeadBlockTime string `json:"head_block_time"`
}

// Client handles communication with a chain RPC node
type Client struct {
	BaseURL string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new chain RPC client. A non-positive rps disables rate limiting.
func NewClient(baseURL string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// GetInfo fetches the node's chain info. Transport failures and non-2xx
// responses are reported as domain.ErrNetworkOrIndexerLag.
func (c *Client) GetInfo(ctx context.Context) (*Info, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+PathGetInfo, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkOrIndexerLag, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: "+ErrMsgRPCStatus, domain.ErrNetworkOrIndexerLag, resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeResponse, err)
	}
	return &info, nil
}

// HeadBlockTime returns the chain's head-block time in UTC
func (c *Client) HeadBlockTime(ctx context.Context) (time.Time, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if info.HeadBlockTime == "" {
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrNetworkOrIndexerLag, ErrMsgEmptyHeadTime)
	}

	t, err := ParseChainTime(info.HeadBlockTime)
	if err != nil {
		return time.Time{}, err
	}
	logger.FromContext(ctx).Debug(LogMsgHeadBlockTime, "head_block_num", info.HeadBlockNum, "head_block_time", t)
	return t, nil
}

// ParseChainTime parses a chain timestamp. Chain nodes serialize UTC times
// without a zone marker ("2024-05-01T12:00:00.500"), so one is appended when
// missing before parsing.
func ParseChainTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: "+ErrMsgParseTime, domain.ErrInvalidInput, raw)
	}
	if !hasZone(s) {
		s += ZoneSuffix
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: "+ErrMsgParseTime, domain.ErrInvalidInput, raw)
	}
	return t.UTC(), nil
}

// hasZone reports whether s ends with "Z" or a numeric offset after the time part
func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	t := strings.IndexByte(s, 'T')
	if t < 0 {
		return false
	}
	clock := s[t+1:]
	return strings.ContainsAny(clock, "+-")
}

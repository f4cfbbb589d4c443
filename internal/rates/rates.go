// Package rates fetches currency exchange rates for display conversion.
// Rates are informational; a static table is served when the upstream API
// cannot be reached.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SourceLive     = "live"
	SourceFallback = "fallback"

	maxBodySize = 1 << 20

	// fallbackTTL bounds how long a fallback quote is served before the
	// upstream is tried again.
	fallbackTTL = time.Minute
)

var (
	ErrInvalidCurrency = errors.New("rates: invalid currency code")
	ErrUnknownCurrency = errors.New("rates: unknown currency")
)

// fallbackUSD is quoted against one US dollar.
var fallbackUSD = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 151.62,
	"INR": 83.12,
	"AUD": 1.52,
	"CAD": 1.35,
	"CHF": 0.90,
	"CNY": 7.23,
	"AED": 3.67,
}

type Quote struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	Source    string             `json:"source"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Client serves quotes from a per-base cache, refreshing from the upstream
// API at most once per TTL and once per base across concurrent callers.
type Client struct {
	baseURL string
	ttl     time.Duration
	timeout time.Duration
	http    *http.Client
	now     func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	quote   Quote
	expires time.Time
}

func NewClient(baseURL string, ttl, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		timeout: timeout,
		http:    &http.Client{},
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

func (c *Client) Latest(ctx context.Context, base string) (Quote, error) {
	base, err := NormalizeCode(base)
	if err != nil {
		return Quote{}, err
	}

	if q, ok := c.cached(base); ok {
		return q, nil
	}

	// Detached so one caller disconnecting does not fail the shared fetch.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, _ := c.group.Do(base, func() (any, error) {
		q, err := c.fetch(fetchCtx, base)
		if err == nil {
			c.store(base, q, c.ttl)
			return q, nil
		}

		logger.Log.Warn("exchange rate fetch failed, using fallback table",
			zap.String("base", base), zap.Error(err))
		q, err = Fallback(base, c.now())
		if err != nil {
			return nil, err
		}
		c.store(base, q, min(fallbackTTL, c.ttl))
		return q, nil
	})
	if err != nil {
		return Quote{}, err
	}
	return v.(Quote), nil
}

func (c *Client) cached(base string) (Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache[base]
	if !ok || !c.now().Before(e.expires) {
		return Quote{}, false
	}
	return e.quote, true
}

func (c *Client) store(base string, q Quote, ttl time.Duration) {
	c.mu.Lock()
	c.cache[base] = cacheEntry{quote: q, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

type apiResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetch(ctx context.Context, base string) (Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("rates: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("rates: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Quote{}, fmt.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Quote{}, fmt.Errorf("rates: reading response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Quote{}, fmt.Errorf("rates: parsing response: %w", err)
	}
	if len(raw.Rates) == 0 {
		return Quote{}, errors.New("rates: empty rate table")
	}

	return Quote{Base: base, Rates: raw.Rates, Source: SourceLive, FetchedAt: c.now()}, nil
}

// Fallback derives cross rates for base from the static USD table.
func Fallback(base string, now time.Time) (Quote, error) {
	usdToBase, ok := fallbackUSD[base]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, base)
	}

	divisor := decimal.NewFromFloat(usdToBase)
	out := make(map[string]float64, len(fallbackUSD))
	for code, usdRate := range fallbackUSD {
		out[code] = decimal.NewFromFloat(usdRate).Div(divisor).Round(6).InexactFloat64()
	}

	return Quote{Base: base, Rates: out, Source: SourceFallback, FetchedAt: now}, nil
}

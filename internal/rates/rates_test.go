package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	code, err := NormalizeCode(" eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", code)

	for _, bad := range []string{"", "EU", "EURO", "E1R"} {
		_, err := NormalizeCode(bad)
		assert.ErrorIs(t, err, ErrInvalidCurrency, bad)
	}
}

func TestLatestCachesLiveQuotes(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.9}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/latest/", time.Hour, time.Second)

	q, err := c.Latest(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, SourceLive, q.Source)
	assert.Equal(t, 0.9, q.Rates["EUR"])

	_, err = c.Latest(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLatestRefreshesAfterTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1}}`))
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL, time.Minute, time.Second)
	c.now = func() time.Time { return now }

	_, err := c.Latest(context.Background(), "USD")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = c.Latest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestLatestFallsBackWhenUpstreamFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Hour, time.Second)

	q, err := c.Latest(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, q.Source)
	assert.Equal(t, "EUR", q.Base)
	assert.Equal(t, 1.0, q.Rates["EUR"])
	assert.InDelta(t, 1/0.92, q.Rates["USD"], 1e-6)

	_, err = c.Latest(context.Background(), "XYZ")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestFallbackUSD(t *testing.T) {
	q, err := Fallback("USD", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.92, q.Rates["EUR"])
	assert.Equal(t, 151.62, q.Rates["JPY"])
	assert.Len(t, q.Rates, len(fallbackUSD))
}

func TestLatestCachesFallbackBriefly(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL, time.Hour, time.Second)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		q, err := c.Latest(context.Background(), "USD")
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, q.Source)
	}
	assert.Equal(t, int32(1), hits.Load())

	now = now.Add(fallbackTTL)
	_, err := c.Latest(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestLatestIgnoresCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.9}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, time.Hour, time.Second)
	q, err := c.Latest(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, SourceLive, q.Source)
}

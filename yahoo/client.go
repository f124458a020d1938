// Package yahoo implements the price, currency-rate and name-resolution
// providers on top of the public Yahoo Finance endpoints.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vozeel/gator"
	"github.com/vozeel/gator/date"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// Client is a caching HTTP client for the Yahoo Finance API. One Client is
// safe for concurrent use and is meant to be shared by the price, rate and
// resolver front-ends.
type Client struct {
	// BaseURL can be overridden for testing.
	BaseURL string

	// Log receives request-level debug output.
	Log *logrus.Logger

	http  *http.Client
	cache *cache.Cache
}

// NewClient returns a client with a request timeout and a short-lived
// response cache, so valuing many dates of the same position does not hammer
// the API.
func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Log:     logrus.StandardLogger(),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

// chartResponse mirrors the v8 chart endpoint payload, down to the fields we
// read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// chart fetches (or serves from cache) the daily chart of symbol over rng.
func (c *Client) chart(ctx context.Context, symbol, rng string) (*chartResponse, error) {
	key := "chart|" + symbol + "|" + rng
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*chartResponse), nil
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=div%%2Csplits",
		c.BaseURL, url.PathEscape(symbol), url.QueryEscape(rng))
	var payload chartResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	if e := payload.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}
	c.cache.Set(key, &payload, cache.DefaultExpiration)
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; gator)")
	c.Log.WithField("url", u).Debug("yahoo request")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: %s: %s", u, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// rangeFor buckets the age of the requested date into the coarsest chart
// range that still covers it, keeping responses small and cacheable.
func rangeFor(on date.Date) string {
	age := date.Today().Sub(on)
	switch {
	case age <= 5:
		return "5d"
	case age <= 28:
		return "1mo"
	case age <= 88:
		return "3mo"
	case age <= 178:
		return "6mo"
	case age <= 360:
		return "1y"
	case age <= 720:
		return "2y"
	case age <= 1800:
		return "5y"
	case age <= 3600:
		return "10y"
	}
	return "max"
}

// ClosingPrice implements gator.PriceProvider: the closing price of symbol
// in its native currency, at the closest trading date at or before on.
func (c *Client) ClosingPrice(ctx context.Context, symbol string, on date.Date) (gator.Money, error) {
	payload, err := c.chart(ctx, strings.ToUpper(symbol), rangeFor(on))
	if err != nil {
		return gator.Money{}, fmt.Errorf("%w: %v", gator.ErrPriceNotFound, err)
	}
	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return gator.Money{}, fmt.Errorf("%s: %w", symbol, gator.ErrPriceNotFound)
	}
	closes := result.Indicators.Quote[0].Close

	// Walk backwards to the last close at or before the end of day on.
	// Trading holidays yield the previous session, never a future one.
	cutoff := on.Add(1).Time().Unix()
	for i := len(result.Timestamp) - 1; i >= 0; i-- {
		if result.Timestamp[i] >= cutoff {
			continue
		}
		if i < len(closes) && closes[i] != nil {
			cur := strings.ToLower(result.Meta.Currency)
			return gator.M(decimal.NewFromFloat(*closes[i]), cur), nil
		}
	}
	return gator.Money{}, fmt.Errorf("%s on %s: %w", symbol, on, gator.ErrPriceNotFound)
}

var _ gator.PriceProvider = (*Client)(nil)

package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/vozeel/gator"
)

// maxLookupsPerMinute is the hard quota of the quote endpoint.
const maxLookupsPerMinute = 50

// Resolver resolves ticker symbols to display names through the quote
// endpoint. Lookups are rate limited to maxLookupsPerMinute and resolved
// names are cached for the process lifetime, so a bulk import only pays the
// quota once per distinct symbol.
type Resolver struct {
	c       *Client
	limiter *rate.Limiter
	names   *cache.Cache
}

// NewResolver returns a gator.InstrumentResolver backed by client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{
		c:       client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/maxLookupsPerMinute), maxLookupsPerMinute),
		names:   cache.New(cache.NoExpiration, 0),
	}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string `json:"symbol"`
			LongName  string `json:"longName"`
			ShortName string `json:"shortName"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// DisplayName implements gator.InstrumentResolver. It blocks when the rate
// limit is exhausted, honoring ctx cancellation.
func (r *Resolver) DisplayName(ctx context.Context, symbol string) (string, error) {
	symbol = strings.ToUpper(symbol)
	if name, ok := r.names.Get(symbol); ok {
		return name.(string), nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", r.c.BaseURL, url.QueryEscape(symbol))
	var payload quoteResponse
	if err := r.c.getJSON(ctx, u, &payload); err != nil {
		return "", err
	}
	for _, q := range payload.QuoteResponse.Result {
		if !strings.EqualFold(q.Symbol, symbol) {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		if name != "" {
			r.names.Set(symbol, name, cache.NoExpiration)
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %w", symbol, gator.ErrInstrumentNotFound)
}

var _ gator.InstrumentResolver = (*Resolver)(nil)

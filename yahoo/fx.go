package yahoo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vozeel/gator"
	"github.com/vozeel/gator/date"
)

// Rates serves currency exchange rates from the Yahoo FX symbols, shaped
// like EURUSD=X.
type Rates struct {
	c *Client
}

// NewRates returns a gator.CurrencyRates backed by client.
func NewRates(client *Client) *Rates { return &Rates{c: client} }

// Rate implements gator.CurrencyRates. A zero date returns the current
// market rate; otherwise the closing rate at the closest prior trading date.
func (r *Rates) Rate(ctx context.Context, from, to string, on date.Date) (decimal.Decimal, error) {
	pair := strings.ToUpper(from) + strings.ToUpper(to) + "=X"
	if on.IsZero() {
		payload, err := r.c.chart(ctx, pair, "1d")
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("rate %s: %w", pair, err)
		}
		price := payload.Chart.Result[0].Meta.RegularMarketPrice
		if price == 0 {
			return decimal.Decimal{}, fmt.Errorf("rate %s: no market price", pair)
		}
		return decimal.NewFromFloat(price), nil
	}
	m, err := r.c.ClosingPrice(ctx, pair, on)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate %s on %s: %w", pair, on, err)
	}
	return m.Amount(), nil
}

var _ gator.CurrencyRates = (*Rates)(nil)

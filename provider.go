package gator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vozeel/gator/date"
)

// PriceProvider serves historical closing prices for securities.
type PriceProvider interface {
	// ClosingPrice returns the closing price of symbol in its native
	// currency at the closest trading date at or before on, never after.
	ClosingPrice(ctx context.Context, symbol string, on date.Date) (Money, error)
}

// CurrencyRates serves currency exchange rates.
type CurrencyRates interface {
	// Rate returns the multiplier converting one unit of from into to.
	// A zero date asks for the latest available rate.
	Rate(ctx context.Context, from, to string, on date.Date) (decimal.Decimal, error)
}

// InstrumentResolver resolves ticker symbols to human-readable names.
type InstrumentResolver interface {
	DisplayName(ctx context.Context, symbol string) (string, error)
}

// CurrencyConverter converts Money values between currencies using a
// CurrencyRates source. Identity conversions short-circuit and never hit the
// rates source.
type CurrencyConverter struct {
	rates CurrencyRates
}

// NewCurrencyConverter returns a converter backed by rates, which may be nil
// when only identity conversions are expected.
func NewCurrencyConverter(rates CurrencyRates) *CurrencyConverter {
	return &CurrencyConverter{rates: rates}
}

// Convert returns m expressed in currency to, using the rate at date on.
// A zero on asks for the latest rate.
func (c *CurrencyConverter) Convert(ctx context.Context, m Money, to string, on date.Date) (Money, error) {
	if m.Currency() == to || m.Currency() == "" || m.IsZero() {
		return M(m.Amount(), to), nil
	}
	if c.rates == nil {
		return Money{}, fmt.Errorf("%s/%s: no rates source: %w", m.Currency(), to, ErrConversionUnavailable)
	}
	rate, err := c.rates.Rate(ctx, m.Currency(), to, on)
	if err != nil {
		return Money{}, fmt.Errorf("%s/%s on %s: %w", m.Currency(), to, on, errors.Join(ErrConversionUnavailable, err))
	}
	return m.MulRate(rate, to), nil
}

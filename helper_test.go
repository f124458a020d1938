package gator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vozeel/gator/date"
)

// quietLogger discards warnings emitted by degraded-mode paths under test.
func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// money helpers keeping test tables readable.
func USD(v float64) Money { return M(v, "usd") }
func EUR(v float64) Money { return M(v, "eur") }

// at builds a timestamp on a date with an hour, the intra-day resolution the
// ledger sorts by.
func at(day string, hour int) time.Time {
	return date.MustParse(day).Time().Add(time.Duration(hour) * time.Hour)
}

// tx builds a valid real transaction or panics, for test fixtures only.
func tx(day string, hour int, typ Type, ticker string, shares float64, price Money) Transaction {
	t, err := NewTransaction(at(day, hour), typ, ActionReal, ticker, Q(shares), price, price.Currency(), Q(0))
	if err != nil {
		panic(err)
	}
	return t
}

// split builds a non-real transaction adding (buy) or removing (sale) shares
// with no cash movement.
func split(day string, typ Type, ticker string, shares float64, currency string) Transaction {
	t, err := NewTransaction(at(day, 9), typ, ActionNonReal, ticker, Q(shares), M(0, currency), currency, Q(0))
	if err != nil {
		panic(err)
	}
	return t
}

// stubPrices serves fixed closing prices per symbol, recording the dates it
// was asked for.
type stubPrices struct {
	prices map[string]Money
	asked  []date.Date
}

func (s *stubPrices) ClosingPrice(_ context.Context, symbol string, on date.Date) (Money, error) {
	s.asked = append(s.asked, on)
	p, ok := s.prices[symbol]
	if !ok {
		return Money{}, fmt.Errorf("%s: %w", symbol, ErrPriceNotFound)
	}
	return p, nil
}

// stubRates serves fixed rates per "fromto" pair and counts invocations.
type stubRates struct {
	rates map[string]float64
	calls int
}

func (s *stubRates) Rate(_ context.Context, from, to string, _ date.Date) (decimal.Decimal, error) {
	s.calls++
	r, ok := s.rates[from+to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s/%s: no rate", from, to)
	}
	return decimal.NewFromFloat(r), nil
}

// stubResolver resolves display names from a fixed map and counts lookups
// per symbol.
type stubResolver struct {
	names map[string]string
	calls map[string]int
}

func (s *stubResolver) DisplayName(_ context.Context, symbol string) (string, error) {
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[symbol]++
	name, ok := s.names[symbol]
	if !ok {
		return "", fmt.Errorf("%s: %w", symbol, ErrInstrumentNotFound)
	}
	return name, nil
}

// quietEngine silences warning logs during tests.
func quietEngine(prices PriceProvider, rates CurrencyRates) *Engine {
	e := NewEngine(prices, rates)
	e.Log = quietLogger()
	return e
}

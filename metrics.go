package gator

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vozeel/gator/date"
)

// defaultParallel bounds the per-ticker valuation fan-out within one
// snapshot.
const defaultParallel = 4

// Engine computes daily metrics snapshots from a ledger. It never mutates
// the ledger; every snapshot is recomputed from scratch, so the cost of a
// series is proportional to dates times tickers times transactions.
type Engine struct {
	prices    PriceProvider
	converter *CurrencyConverter

	// Log receives warnings for degraded valuations and unmatched sales.
	Log *logrus.Logger

	// MaxParallel bounds concurrent price lookups within one snapshot.
	MaxParallel int
}

// NewEngine returns an engine valuing positions with prices and converting
// them with rates.
func NewEngine(prices PriceProvider, rates CurrencyRates) *Engine {
	return &Engine{
		prices:      prices,
		converter:   NewCurrencyConverter(rates),
		Log:         logrus.StandardLogger(),
		MaxParallel: defaultParallel,
	}
}

// SnapshotAt computes the metrics snapshot of ledger at the end of day on,
// in the base currency. Entries dated on itself are included.
func (e *Engine) SnapshotAt(ctx context.Context, ledger *Ledger, base string, on date.Date) (*Snapshot, error) {
	return e.snapshot(ctx, ledger, base, on, on)
}

// SnapshotNow computes today's snapshot using the latest available rates
// instead of historical ones.
func (e *Engine) SnapshotNow(ctx context.Context, ledger *Ledger, base string) (*Snapshot, error) {
	return e.snapshot(ctx, ledger, base, date.Today(), date.Date{})
}

// Series computes one snapshot per calendar day of r, ascending. A failed
// valuation degrades a single position, never the series.
func (e *Engine) Series(ctx context.Context, ledger *Ledger, base string, r date.Range) (Series, error) {
	var series Series
	for on := range r.Days() {
		s, err := e.SnapshotAt(ctx, ledger, base, on)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

// rateDate zero means latest rates.
func (e *Engine) snapshot(ctx context.Context, ledger *Ledger, base string, on date.Date, rateDate date.Date) (*Snapshot, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, err
	}
	tickers := ledger.Tickers(on)
	s := &Snapshot{
		On:        on,
		Base:      base,
		Positions: make(map[string]Position, len(tickers)),
	}

	// Ledger-derived figures first, single pass per ticker.
	positions := make([]Position, len(tickers))
	for i, ticker := range tickers {
		positions[i] = e.position(ledger, ticker, on, base)
	}

	// Market valuation fans out with a bound; each failure degrades its own
	// position to zero value.
	failures := make([]*Failure, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.MaxParallel)
	for i, ticker := range tickers {
		g.Go(func() error {
			value, err := e.value(gctx, ticker, positions[i].Held, base, on, rateDate)
			if err != nil {
				e.Log.WithFields(logrus.Fields{
					"ticker": ticker,
					"date":   on.String(),
				}).WithError(err).Warn("valuation degraded to zero")
				failures[i] = &Failure{Ticker: ticker, On: on, Err: err}
				value = M(0, base)
			}
			positions[i].Value = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range positions {
		s.TotalValue = s.TotalValue.Add(p.Value)
		s.TotalInvested = s.TotalInvested.Add(p.Invested)
		s.TotalRealized = s.TotalRealized.Add(p.Realized)
	}
	s.TotalValue = M(s.TotalValue.Amount(), base)
	s.TotalInvested = M(s.TotalInvested.Amount(), base)
	s.TotalRealized = M(s.TotalRealized.Amount(), base)
	s.TotalPL, s.TotalPLDefined = profitLoss(s.TotalValue, s.TotalRealized, s.TotalInvested)

	for i, p := range positions {
		p.PL, p.PLDefined = profitLoss(p.Value, p.Realized, p.Invested)
		p.RatioInvested = ratio(p.Invested.Amount(), s.TotalInvested.Amount())
		p.RatioValue = ratio(p.Value.Amount(), s.TotalValue.Amount())
		s.Positions[tickers[i]] = p
	}
	for _, f := range failures {
		if f != nil {
			s.Failures = append(s.Failures, *f)
		}
	}
	return s, nil
}

// position computes the ledger-derived figures for one ticker at one date.
// Amounts accumulate as raw decimals and are stamped with the base currency
// at the end, so an entry whose conversion fell back to its original
// currency degrades the figure instead of poisoning the whole snapshot.
func (e *Engine) position(ledger *Ledger, ticker string, on date.Date, base string) Position {
	p := Position{Ticker: ticker}
	invested := decimal.Zero
	totalAmount := decimal.Zero // signed, real and non-real alike
	for entry := range ledger.TickerEntries(ticker, on) {
		if p.Name == "" {
			p.Name = entry.Name
		}
		p.Held = p.Held.Add(entry.SignedShares())
		totalAmount = totalAmount.Add(entry.AmountBase.Amount())
		if entry.IsReal() {
			invested = invested.Add(entry.AmountBase.Amount())
		}
	}
	p.Invested = M(invested, base)
	if p.Held.IsZero() {
		p.CostAverage = M(0, base)
	} else {
		p.CostAverage = M(totalAmount, base).Div(p.Held)
	}
	r := fifoRealized(ledger.TickerEntries(ticker, on))
	p.Realized = M(r.Realized.Amount(), base)
	p.UnmatchedSale = r.Unmatched
	if !r.Unmatched.IsZero() {
		e.Log.WithFields(logrus.Fields{
			"ticker": ticker,
			"shares": r.Unmatched.String(),
		}).Warn("sale quantity exceeds purchase lots, excess ignored")
	}
	return p
}

// value prices held shares of ticker in the base currency at date on.
func (e *Engine) value(ctx context.Context, ticker string, held Quantity, base string, on, rateDate date.Date) (Money, error) {
	if held.IsZero() {
		return M(0, base), nil
	}
	price, err := e.prices.ClosingPrice(ctx, ticker, on)
	if err != nil {
		return Money{}, err
	}
	priceBase, err := e.converter.Convert(ctx, price, base, rateDate)
	if err != nil {
		return Money{}, err
	}
	return priceBase.Mul(held), nil
}

// profitLoss returns (value + realized - invested) / invested, and whether
// the figure is defined. With zero invested it returns NaN and false rather
// than aborting the snapshot.
func profitLoss(value, realized, invested Money) (float64, bool) {
	if invested.IsZero() {
		return math.NaN(), false
	}
	gain := value.Amount().Add(realized.Amount()).Sub(invested.Amount())
	return gain.Div(invested.Amount()).InexactFloat64(), true
}

// ratio returns part/total, or 0 when total is zero.
func ratio(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).InexactFloat64()
}

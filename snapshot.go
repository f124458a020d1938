package gator

import (
	"slices"

	"github.com/vozeel/gator/date"
)

// Position holds the per-ticker figures of a daily metrics snapshot, all
// monetary values in the portfolio's base currency.
type Position struct {
	Ticker string
	Name   string

	// Held is the net share quantity, counting real and non-real entries.
	Held Quantity

	// Value is Held times the closing price at the snapshot date, zero when
	// the valuation degraded (see Snapshot.Failures).
	Value Money

	// Invested is the signed sum of real transaction amounts: buys add,
	// sales subtract.
	Invested Money

	// Realized is the cumulative FIFO realized gain/loss.
	Realized Money

	// CostAverage is the average cost per held share, zero when nothing is
	// held.
	CostAverage Money

	// PL is (Value + Realized - Invested) / Invested. It is NaN and
	// PLDefined is false when Invested is zero.
	PL        float64
	PLDefined bool

	// RatioInvested and RatioValue are this position's share of the
	// portfolio totals, zero when the respective total is zero.
	RatioInvested float64
	RatioValue    float64

	// UnmatchedSale is the sold quantity the FIFO matcher could not match
	// against any purchase lot. Non-zero values deserve a look at the
	// ledger.
	UnmatchedSale Quantity
}

// Failure records one ticker whose valuation degraded to zero at a date.
type Failure struct {
	Ticker string
	On     date.Date
	Err    error
}

// Snapshot is the portfolio-wide metrics picture at one date. It is a pure
// function of the ledger content, the date and the base currency.
type Snapshot struct {
	On   date.Date
	Base string

	Positions map[string]Position

	TotalValue     Money
	TotalInvested  Money
	TotalRealized  Money
	TotalPL        float64
	TotalPLDefined bool

	// Failures lists the tickers whose market value degraded to zero, one
	// record per ticker, sorted by ticker.
	Failures []Failure
}

// Tickers returns the snapshot's tickers in sorted order, for deterministic
// iteration over Positions.
func (s *Snapshot) Tickers() []string {
	tickers := make([]string, 0, len(s.Positions))
	for t := range s.Positions {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	return tickers
}

// Series is a run of snapshots in ascending date order.
type Series []*Snapshot

// Last returns the most recent snapshot, nil when empty.
func (s Series) Last() *Snapshot {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

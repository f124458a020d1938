package gator

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/vozeel/gator/date"
)

// lot is an open FIFO purchase lot: the unsold remainder of one real buy.
// Prices are raw decimals in the ledger's base currency; working on bare
// numbers keeps the matcher safe even when a conversion fallback left an
// entry in its original currency.
type lot struct {
	remaining Quantity
	price     decimal.Decimal
}

// fifoResult is the outcome of matching one ticker's sales against its
// purchase lots.
type fifoResult struct {
	// Realized is the cumulative realized gain or loss in the base
	// currency: sum over matched share of (sale price - lot price).
	Realized Money

	// Unmatched is the sale quantity that found no lot to match. Matching
	// stops at the overflow point; the unmatched remainder contributes
	// nothing to Realized and is surfaced so callers can warn about it.
	Unmatched Quantity
}

// fifoRealized computes the realized gain/loss for one ticker from its
// entries in ledger order.
//
// Real buys open lots and real sales consume them oldest first. Non-real
// entries (splits and the like) move no cash: instead they scale every lot
// already open by the held-quantity ratio around the event, so a 2:1 split
// doubles each open lot's remaining shares and halves its per-share cost.
// Lots opened after the event are untouched.
func fifoRealized(entries iter.Seq[Entry]) fifoResult {
	type sale struct {
		shares Quantity
		price  decimal.Decimal
	}
	var lots []lot
	var sales []sale
	var held Quantity
	var cur string
	for e := range entries {
		before := held
		held = held.Add(e.SignedShares())
		if cur == "" {
			cur = e.SharePriceBase.Currency()
		}
		if !e.IsReal() {
			if before.IsZero() || held.IsZero() {
				continue
			}
			ratio := held.Div(before)
			for i := range lots {
				lots[i].remaining = lots[i].remaining.Mul(ratio)
				lots[i].price = lots[i].price.Div(ratio.Decimal())
			}
			continue
		}
		switch e.Type() {
		case TypeBuy:
			lots = append(lots, lot{remaining: e.Shares(), price: e.SharePriceBase.Amount()})
		case TypeSale:
			sales = append(sales, sale{shares: e.Shares(), price: e.SharePriceBase.Amount()})
		}
	}

	realized := decimal.Zero
	var unmatched Quantity
	next := 0 // first lot with shares left
	for _, s := range sales {
		toMatch := s.shares
		for next < len(lots) && toMatch.IsPositive() {
			if lots[next].remaining.IsZero() {
				next++
				continue
			}
			matched := toMatch.Min(lots[next].remaining)
			gain := s.price.Sub(lots[next].price).Mul(matched.Decimal())
			realized = realized.Add(gain)
			lots[next].remaining = lots[next].remaining.Sub(matched)
			toMatch = toMatch.Sub(matched)
		}
		if toMatch.IsPositive() {
			unmatched = unmatched.Add(toMatch)
		}
	}
	return fifoResult{Realized: M(realized, cur), Unmatched: unmatched}
}

// RealizedGains computes the FIFO realized gain/loss for ticker over the
// entries dated at or before on.
func (l *Ledger) RealizedGains(ticker string, on date.Date) (realized Money, unmatched Quantity) {
	r := fifoRealized(l.TickerEntries(ticker, on))
	return r.Realized, r.Unmatched
}

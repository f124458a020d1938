package gator

import (
	"iter"
	"slices"
	"strings"

	"github.com/vozeel/gator/date"
)

// Entry is a Transaction materialized into a Ledger: the immutable event
// enriched with the resolved display name, user tags and the base-currency
// figures computed at append time.
type Entry struct {
	Transaction

	// ID uniquely identifies the entry across appends and reloads.
	ID string

	// Name is the instrument's resolved display name.
	Name string

	// Tags are free-form user labels.
	Tags []string

	// SharePriceBase is the per-share price converted to the portfolio's
	// base currency at the transaction date.
	SharePriceBase Money

	// AmountBase is the signed transaction amount (signed shares times
	// share price) in the base currency. Buys are positive, sales negative.
	AmountBase Money
}

// Ledger is the append-only record of a portfolio's entries, kept stably
// sorted by transaction timestamp. Entries with equal timestamps preserve
// their insertion order.
type Ledger struct {
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Append adds entries to the ledger and restores the date ordering. Existing
// entries are never modified or removed.
func (l *Ledger) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
	l.stableSort()
}

// stableSort sorts entries by timestamp, preserving the relative order of
// equal timestamps. Sorting an already sorted ledger is a no-op.
func (l *Ledger) stableSort() {
	slices.SortStableFunc(l.entries, func(a, b Entry) int {
		return a.DateHour().Compare(b.DateHour())
	})
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries iterates over all entries in date order.
func (l *Ledger) Entries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range l.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// TickerEntries iterates, in date order, over the entries for one ticker
// whose transaction date falls at or before on. Entries dated on itself are
// included.
func (l *Ledger) TickerEntries(ticker string, on date.Date) iter.Seq[Entry] {
	ticker = strings.ToLower(ticker)
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if e.Ticker() != ticker || e.Date().After(on) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Tickers returns the sorted set of distinct tickers appearing in entries
// dated at or before on.
func (l *Ledger) Tickers(on date.Date) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, e := range l.entries {
		if e.Date().After(on) || seen[e.Ticker()] {
			continue
		}
		seen[e.Ticker()] = true
		tickers = append(tickers, e.Ticker())
	}
	slices.Sort(tickers)
	return tickers
}

// OldestDate returns the date of the first entry, zero when empty.
func (l *Ledger) OldestDate() date.Date {
	if len(l.entries) == 0 {
		return date.Date{}
	}
	return l.entries[0].Date()
}

// NewestDate returns the date of the last entry, zero when empty.
func (l *Ledger) NewestDate() date.Date {
	if len(l.entries) == 0 {
		return date.Date{}
	}
	return l.entries[len(l.entries)-1].Date()
}

// Range returns the inclusive date range spanned by the ledger.
func (l *Ledger) Range() date.Range {
	return date.NewRange(l.OldestDate(), l.NewestDate())
}

// Contains reports whether the ledger already holds an entry whose
// transaction equals tx. Used to dedup imports.
func (l *Ledger) Contains(tx Transaction) bool {
	for _, e := range l.entries {
		if e.Transaction.Equal(tx) {
			return true
		}
	}
	return false
}

package gator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vozeel/gator/date"
)

// Portfolio owns a ledger and orchestrates the full lifecycle of its
// entries: validation, display-name resolution, base-currency conversion,
// append and metrics computation. Mutations are serialized by an internal
// mutex; the zero value is not usable, call NewPortfolio.
type Portfolio struct {
	mu       sync.Mutex
	base     string
	ledger   *Ledger
	names    map[string]string // ticker -> resolved display name
	resolver InstrumentResolver
	conv     *CurrencyConverter
	engine   *Engine

	// Log receives conversion-fallback and resolver warnings.
	Log *logrus.Logger
}

// NewPortfolio returns an empty portfolio denominated in base. The resolver
// may be nil, in which case tickers double as display names.
func NewPortfolio(base string, resolver InstrumentResolver, rates CurrencyRates, prices PriceProvider) (*Portfolio, error) {
	return NewPortfolioFromLedger(base, NewLedger(), resolver, rates, prices)
}

// NewPortfolioFromLedger wraps an existing ledger, typically decoded from a
// file or loaded from a store. Entry names seed the resolver cache.
func NewPortfolioFromLedger(base string, ledger *Ledger, resolver InstrumentResolver, rates CurrencyRates, prices PriceProvider) (*Portfolio, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, err
	}
	names := make(map[string]string)
	for _, e := range ledger.Entries() {
		if e.Name != "" {
			names[e.Ticker()] = e.Name
		}
	}
	return &Portfolio{
		base:     base,
		ledger:   ledger,
		names:    names,
		resolver: resolver,
		conv:     NewCurrencyConverter(rates),
		engine:   NewEngine(prices, rates),
		Log:      logrus.StandardLogger(),
	}, nil
}

// BaseCurrency returns the portfolio's base currency code.
func (p *Portfolio) BaseCurrency() string { return p.base }

// Ledger returns the underlying ledger. Callers must not mutate it directly;
// use AddTransaction.
func (p *Portfolio) Ledger() *Ledger { return p.ledger }

// AddTransaction materializes tx into a ledger entry and appends it: the
// display name is resolved (cached per ticker), the share price and signed
// amount are converted to the base currency, and the ledger is re-sorted.
//
// When conversion fails the unconverted figure is kept and a warning is
// logged, so the entry is never dropped and never half-converted.
func (p *Portfolio) AddTransaction(ctx context.Context, tx Transaction, tags ...string) (Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addTransaction(ctx, tx, tags)
}

// addTransaction is AddTransaction without the locking; the caller holds
// p.mu.
func (p *Portfolio) addTransaction(ctx context.Context, tx Transaction, tags []string) (Entry, error) {
	entry := Entry{
		Transaction: tx,
		ID:          uuid.NewString(),
		Name:        p.displayName(ctx, tx.Ticker()),
		Tags:        tags,
	}
	on := tx.Date()
	entry.SharePriceBase = p.toBase(ctx, tx.SharePrice(), on)
	entry.AmountBase = p.toBase(ctx, tx.SharePrice().Mul(tx.SignedShares()), on)
	p.ledger.Append(entry)
	return entry, nil
}

// Import adds every transaction not already present in the ledger, so
// re-importing an overlapping export is idempotent. tags maps tickers to the
// tags applied to their new entries. It returns the entries actually added.
//
// The whole batch runs under the portfolio mutex: the dedup check and the
// appends are atomic with respect to concurrent mutations.
func (p *Portfolio) Import(ctx context.Context, txs []Transaction, tags map[string][]string) ([]Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var added []Entry
	for _, tx := range txs {
		if p.ledger.Contains(tx) {
			continue
		}
		entry, err := p.addTransaction(ctx, tx, tags[tx.Ticker()])
		if err != nil {
			return added, err
		}
		added = append(added, entry)
	}
	return added, nil
}

// ComputeMetrics computes one snapshot per day of r. A zero range covers the
// whole ledger.
func (p *Portfolio) ComputeMetrics(ctx context.Context, r date.Range) (Series, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r.IsZero() {
		if p.ledger.Len() == 0 {
			return nil, nil
		}
		r = p.ledger.Range()
	}
	return p.engine.Series(ctx, p.ledger, p.base, r)
}

// ComputeMetricsNow computes today's snapshot with the latest rates.
func (p *Portfolio) ComputeMetricsNow(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.SnapshotNow(ctx, p.ledger, p.base)
}

// displayName resolves ticker to a display name, consulting the resolver
// once per ticker. Resolution failure falls back to the ticker itself.
func (p *Portfolio) displayName(ctx context.Context, ticker string) string {
	if name, ok := p.names[ticker]; ok {
		return name
	}
	name := ticker
	if p.resolver != nil {
		resolved, err := p.resolver.DisplayName(ctx, ticker)
		if err != nil {
			p.Log.WithField("ticker", ticker).WithError(err).Warn("name resolution failed, using ticker")
		} else {
			name = resolved
		}
	}
	p.names[ticker] = name
	return name
}

// toBase converts m to the base currency, falling back to the unconverted
// amount with a warning when no rate is available.
func (p *Portfolio) toBase(ctx context.Context, m Money, on date.Date) Money {
	converted, err := p.conv.Convert(ctx, m, p.base, on)
	if err != nil {
		p.Log.WithFields(logrus.Fields{
			"currency": m.Currency(),
			"base":     p.base,
			"date":     on.String(),
		}).WithError(err).Warn("conversion unavailable, keeping unconverted amount")
		return m
	}
	return converted
}

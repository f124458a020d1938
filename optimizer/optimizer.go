// Package optimizer allocates a purchase budget over a prioritized list of
// tickers, honoring per-ticker target allocations. It works on prices and
// fractions only and knows nothing about ledgers.
package optimizer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.New(1, 0)

// Plan describes a purchase round: the budget, the tickers in priority
// order, their target allocation fractions and unit prices.
type Plan struct {
	budget      decimal.Decimal
	surplus     decimal.Decimal // tolerated allocation overshoot, as a fraction
	priority    []string
	allocations map[string]decimal.Decimal
	prices      map[string]decimal.Decimal
}

// NewPlan validates the inputs and returns a Plan. The allocation fractions
// must not sum above 1; surplus is the approved per-ticker overshoot (0.05
// lets a 20% target spend up to 25% of the budget).
func NewPlan(budget decimal.Decimal, priority []string, allocations, prices map[string]decimal.Decimal, surplus decimal.Decimal) (*Plan, error) {
	if !budget.IsPositive() {
		return nil, fmt.Errorf("budget %s must be positive", budget)
	}
	if len(priority) == 0 {
		return nil, errors.New("no tickers to allocate")
	}
	if surplus.IsNegative() {
		return nil, fmt.Errorf("allocation surplus %s must not be negative", surplus)
	}
	seen := make(map[string]bool, len(priority))
	total := decimal.Zero
	for _, ticker := range priority {
		if seen[ticker] {
			return nil, fmt.Errorf("ticker %s listed twice", ticker)
		}
		seen[ticker] = true
		alloc, ok := allocations[ticker]
		if !ok {
			return nil, fmt.Errorf("ticker %s has no allocation", ticker)
		}
		if alloc.IsNegative() || alloc.GreaterThan(one) {
			return nil, fmt.Errorf("ticker %s allocation %s outside [0, 1]", ticker, alloc)
		}
		total = total.Add(alloc)
		price, ok := prices[ticker]
		if !ok || !price.IsPositive() {
			return nil, fmt.Errorf("ticker %s has no positive price", ticker)
		}
	}
	if total.GreaterThan(one) {
		return nil, fmt.Errorf("allocations sum to %s, above 1", total)
	}
	return &Plan{
		budget:      budget,
		surplus:     surplus,
		priority:    priority,
		allocations: allocations,
		prices:      prices,
	}, nil
}

// Purchase is the outcome for one ticker.
type Purchase struct {
	Ticker string
	Shares int64
	Cost   decimal.Decimal

	// Allocation is the fraction of the budget actually spent.
	Allocation float64
}

// Result is a complete budget allocation.
type Result struct {
	Purchases []Purchase
	TotalCost decimal.Decimal
	Remaining decimal.Decimal
}

// maxShares is the share cap implied by a ticker's target allocation plus
// the approved surplus.
func (p *Plan) maxShares(ticker string) int64 {
	maxCost := p.budget.Mul(p.allocations[ticker].Add(p.surplus))
	return maxCost.Div(p.prices[ticker]).Floor().IntPart()
}

func (p *Plan) result(owned map[string]int64, remaining decimal.Decimal) Result {
	r := Result{Remaining: remaining, TotalCost: decimal.Zero}
	for _, ticker := range p.priority {
		cost := p.prices[ticker].Mul(decimal.New(owned[ticker], 0))
		r.TotalCost = r.TotalCost.Add(cost)
		r.Purchases = append(r.Purchases, Purchase{
			Ticker:     ticker,
			Shares:     owned[ticker],
			Cost:       cost,
			Allocation: cost.Div(p.budget).InexactFloat64(),
		})
	}
	return r
}

// Strict allocates greedily in priority order: each ticker takes as many
// shares as its target (plus surplus) and the remaining budget allow before
// the next ticker sees a cent.
func (p *Plan) Strict() Result {
	owned := make(map[string]int64, len(p.priority))
	remaining := p.budget
	for _, ticker := range p.priority {
		price := p.prices[ticker]
		affordable := remaining.Div(price).Floor().IntPart()
		n := min(p.maxShares(ticker), affordable)
		if n <= 0 {
			continue
		}
		owned[ticker] = n
		remaining = remaining.Sub(price.Mul(decimal.New(n, 0)))
	}
	return p.result(owned, remaining)
}

// Progressive round-robins one share at a time through the priority list, so
// cheap late-priority tickers still fill up when an expensive early one
// exhausts the budget in Strict mode. It stops when a full pass buys
// nothing.
func (p *Plan) Progressive() Result {
	owned := make(map[string]int64, len(p.priority))
	remaining := p.budget
	for {
		progressed := false
		for _, ticker := range p.priority {
			price := p.prices[ticker]
			if owned[ticker] >= p.maxShares(ticker) || price.GreaterThan(remaining) {
				continue
			}
			owned[ticker]++
			remaining = remaining.Sub(price)
			progressed = true
		}
		if !progressed {
			return p.result(owned, remaining)
		}
	}
}

// Rounds releases the budget in slices of roundProportion and allocates each
// slice greedily by priority, carrying unspent money into the next round.
// A proportion of 1 degenerates to Strict.
func (p *Plan) Rounds(roundProportion decimal.Decimal) (Result, error) {
	if !roundProportion.IsPositive() || roundProportion.GreaterThan(one) {
		return Result{}, fmt.Errorf("round proportion %s outside (0, 1]", roundProportion)
	}
	owned := make(map[string]int64, len(p.priority))
	slice := p.budget.Mul(roundProportion)
	released := decimal.Zero
	available := decimal.Zero
	for released.LessThan(p.budget) {
		release := decimal.Min(slice, p.budget.Sub(released))
		released = released.Add(release)
		available = available.Add(release)
		for _, ticker := range p.priority {
			price := p.prices[ticker]
			capacity := p.maxShares(ticker) - owned[ticker]
			affordable := available.Div(price).Floor().IntPart()
			n := min(capacity, affordable)
			if n <= 0 {
				continue
			}
			owned[ticker] += n
			available = available.Sub(price.Mul(decimal.New(n, 0)))
		}
	}
	return p.result(owned, available), nil
}

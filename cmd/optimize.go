package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/vozeel/gator/date"
	"github.com/vozeel/gator/optimizer"
	"github.com/vozeel/gator/yahoo"
)

// optimizeCmd allocates a purchase budget over a prioritized ticker list.
type optimizeCmd struct {
	budget  string
	tickers string
	allocs  string
	prices  string
	mode    string
	round   string
	surplus string
}

func (*optimizeCmd) Name() string     { return "optimize" }
func (*optimizeCmd) Synopsis() string { return "allocate a purchase budget over tickers" }
func (*optimizeCmd) Usage() string {
	return `gator optimize -budget <amount> -tickers a,b -alloc a=0.6,b=0.4 [-prices a=100,b=50] [-mode strict|progressive|rounds]

  Tickers are taken in priority order. Prices missing from -prices are
  fetched from the market at today's date.

`
}

func (c *optimizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.budget, "budget", "", "budget to spend, in any one currency")
	f.StringVar(&c.tickers, "tickers", "", "comma-separated tickers, highest priority first")
	f.StringVar(&c.allocs, "alloc", "", "target allocations, ticker=fraction,...")
	f.StringVar(&c.prices, "prices", "", "unit prices, ticker=price,... (fetched when omitted)")
	f.StringVar(&c.mode, "mode", "strict", "strict, progressive or rounds")
	f.StringVar(&c.round, "round", "0.25", "budget proportion released per round (rounds mode)")
	f.StringVar(&c.surplus, "surplus", "0", "approved allocation surplus, e.g. 0.05")
}

func (c *optimizeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	budget, err := decimal.NewFromString(c.budget)
	if err != nil {
		return usageError(fmt.Errorf("parsing -budget: %w", err))
	}
	surplus, err := decimal.NewFromString(c.surplus)
	if err != nil {
		return usageError(fmt.Errorf("parsing -surplus: %w", err))
	}
	priority := splitList(c.tickers)
	if len(priority) == 0 {
		return usageError(fmt.Errorf("-tickers is required"))
	}
	allocs, err := parseFractions(c.allocs)
	if err != nil {
		return usageError(fmt.Errorf("parsing -alloc: %w", err))
	}
	prices, err := parseFractions(c.prices)
	if err != nil {
		return usageError(fmt.Errorf("parsing -prices: %w", err))
	}
	if err := fetchMissingPrices(ctx, priority, prices); err != nil {
		return fail(err)
	}

	plan, err := optimizer.NewPlan(budget, priority, allocs, prices, surplus)
	if err != nil {
		return usageError(err)
	}
	var result optimizer.Result
	switch c.mode {
	case "strict":
		result = plan.Strict()
	case "progressive":
		result = plan.Progressive()
	case "rounds":
		proportion, err := decimal.NewFromString(c.round)
		if err != nil {
			return usageError(fmt.Errorf("parsing -round: %w", err))
		}
		if result, err = plan.Rounds(proportion); err != nil {
			return usageError(err)
		}
	default:
		return usageError(fmt.Errorf("unknown mode %q", c.mode))
	}

	display(renderResult(c.mode, budget, result))
	return subcommands.ExitSuccess
}

func renderResult(mode string, budget decimal.Decimal, r optimizer.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Purchase plan (%s, budget %s)\n\n", mode, budget)
	b.WriteString("| Ticker | Shares | Cost | Allocation |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, p := range r.Purchases {
		fmt.Fprintf(&b, "| %s | %d | %s | %.2f%% |\n", p.Ticker, p.Shares, p.Cost, p.Allocation*100)
	}
	fmt.Fprintf(&b, "\n**Total** %s, **remaining** %s\n", r.TotalCost, r.Remaining)
	return b.String()
}

// fetchMissingPrices completes the price map from today's market quotes.
func fetchMissingPrices(ctx context.Context, priority []string, prices map[string]decimal.Decimal) error {
	client := yahoo.NewClient()
	for _, ticker := range priority {
		if _, ok := prices[ticker]; ok {
			continue
		}
		m, err := client.ClosingPrice(ctx, ticker, date.Today())
		if err != nil {
			return fmt.Errorf("no price given or found for %s: %w", ticker, err)
		}
		prices[ticker] = m.Amount()
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseFractions parses "a=0.6,b=0.4" into a decimal map.
func parseFractions(s string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	if s == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not key=value", part)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		out[strings.ToLower(strings.TrimSpace(key))] = d
	}
	return out, nil
}

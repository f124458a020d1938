package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/vozeel/gator/date"
	"github.com/vozeel/gator/renderer"
)

// metricsCmd computes and displays portfolio metrics.
type metricsCmd struct {
	start string
	end   string
	now   bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "compute portfolio metrics over a date range or now" }
func (*metricsCmd) Usage() string {
	return `gator metrics [-s <date>] [-d <date>] | [-now]

  Computes one snapshot per day of the range (whole ledger history when no
  range is given) and renders the report. -now prices positions today with
  the latest exchange rates.

`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "start date, 2006-01-02")
	f.StringVar(&c.end, "d", "", "end date, 2006-01-02")
	f.BoolVar(&c.now, "now", false, "single snapshot at today's date with latest rates")
}

func (c *metricsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	p, err := loadPortfolio(cfg)
	if err != nil {
		return fail(err)
	}

	if c.now {
		if c.start != "" || c.end != "" {
			return usageError(fmt.Errorf("-now cannot be combined with -s or -d"))
		}
		snapshot, err := p.ComputeMetricsNow(ctx)
		if err != nil {
			return fail(err)
		}
		display(renderer.Snapshot(snapshot))
		return subcommands.ExitSuccess
	}

	var r date.Range
	if c.start != "" || c.end != "" {
		from, err := parseOr(c.start, p.Ledger().OldestDate())
		if err != nil {
			return usageError(err)
		}
		to, err := parseOr(c.end, date.Today())
		if err != nil {
			return usageError(err)
		}
		r = date.NewRange(from, to)
	}
	series, err := p.ComputeMetrics(ctx, r)
	if err != nil {
		return fail(err)
	}
	if len(series) == 0 {
		fmt.Println("The ledger is empty.")
		return subcommands.ExitSuccess
	}
	display(renderer.Series(series))
	return subcommands.ExitSuccess
}

func parseOr(s string, fallback date.Date) (date.Date, error) {
	if s == "" {
		return fallback, nil
	}
	return date.Parse(s)
}

// Package renderer turns metrics snapshots into markdown reports, ready for
// terminal display or plain saving.
package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/vozeel/gator"
)

// Snapshot renders the full per-position report of one snapshot.
func Snapshot(s *gator.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio on %s\n\n", s.On)
	if len(s.Positions) == 0 {
		b.WriteString("No positions.\n")
		return b.String()
	}

	b.WriteString("| Ticker | Name | Held | Value | Invested | Realized | Cost Avg | P/L | % Value |\n")
	b.WriteString("| --- | --- | ---: | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, ticker := range s.Tickers() {
		p := s.Positions[ticker]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			ticker, p.Name, p.Held,
			p.Value, p.Invested, p.Realized.SignedString(), p.CostAverage,
			percent(p.PL, p.PLDefined), percent(p.RatioValue, true))
	}

	fmt.Fprintf(&b, "\n**Total value** %s | **invested** %s | **realized** %s | **P/L** %s\n",
		s.TotalValue, s.TotalInvested, s.TotalRealized.SignedString(),
		percent(s.TotalPL, s.TotalPLDefined))

	if len(s.Failures) > 0 {
		b.WriteString("\n## Degraded valuations\n\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "- %s valued at zero on %s: %v\n", f.Ticker, f.On, f.Err)
		}
	}
	warned := false
	for _, ticker := range s.Tickers() {
		if p := s.Positions[ticker]; !p.UnmatchedSale.IsZero() {
			if !warned {
				b.WriteString("\n## Warnings\n\n")
				warned = true
			}
			fmt.Fprintf(&b, "- %s: %s sold shares matched no purchase lot\n", ticker, p.UnmatchedSale)
		}
	}
	return b.String()
}

// Series renders the day-by-day totals of a snapshot run, followed by the
// last day's full report.
func Series(series gator.Series) string {
	last := series.Last()
	if last == nil {
		return "No snapshots.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio %s to %s\n\n", series[0].On, last.On)
	b.WriteString("| Date | Value | Invested | Realized | P/L |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: |\n")
	for _, s := range series {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.On, s.TotalValue, s.TotalInvested, s.TotalRealized.SignedString(),
			percent(s.TotalPL, s.TotalPLDefined))
	}
	b.WriteString("\n")
	b.WriteString(Snapshot(last))
	return b.String()
}

// percent formats a ratio as a signed percentage, "n/a" when undefined.
func percent(v float64, defined bool) string {
	if !defined || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}

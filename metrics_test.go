package gator

import (
	"context"
	"math"
	"testing"

	"github.com/vozeel/gator/date"
)

func TestSnapshotEndToEnd(t *testing.T) {
	// Single ticker, base currency equals transact currency, fixed price.
	l := NewLedger()
	l.Append(
		entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100))),
		entryOf(tx("2024-02-02", 10, TypeBuy, "aapl", 5, USD(120))),
		entryOf(tx("2024-03-02", 10, TypeSale, "aapl", 8, USD(150))),
	)
	prices := &stubPrices{prices: map[string]Money{"aapl": USD(200)}}
	e := quietEngine(prices, nil)

	s, err := e.SnapshotAt(context.Background(), l, "usd", date.MustParse("2024-03-31"))
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}
	p, ok := s.Positions["aapl"]
	if !ok {
		t.Fatalf("no aapl position in %v", s.Positions)
	}
	if !p.Held.Equal(Q(7)) {
		t.Errorf("held = %v, want 7", p.Held)
	}
	// Signed: +1000 +600 -1200.
	if want := USD(400); !p.Invested.Equal(want) {
		t.Errorf("invested = %v, want %v", p.Invested, want)
	}
	// FIFO: the 8 sold shares all come from the first lot at 100.
	if want := USD(400); !p.Realized.Equal(want) {
		t.Errorf("realized = %v, want %v", p.Realized, want)
	}
	// 400/7.
	if got := p.CostAverage.Amount().InexactFloat64(); math.Abs(got-57.142857) > 1e-5 {
		t.Errorf("cost average = %v, want 400/7", got)
	}
	if want := USD(1400); !p.Value.Equal(want) {
		t.Errorf("value = %v, want %v", p.Value, want)
	}
	// (1400 + 400 - 400) / 400.
	if !p.PLDefined || math.Abs(p.PL-3.5) > 1e-9 {
		t.Errorf("PL = %v defined=%v, want 3.5", p.PL, p.PLDefined)
	}
	if !s.TotalValue.Equal(USD(1400)) || !s.TotalInvested.Equal(USD(400)) || !s.TotalRealized.Equal(USD(400)) {
		t.Errorf("totals = %v %v %v", s.TotalValue, s.TotalInvested, s.TotalRealized)
	}
	if p.RatioValue != 1 || p.RatioInvested != 1 {
		t.Errorf("ratios = %v %v, want 1 1", p.RatioValue, p.RatioInvested)
	}
	if len(s.Failures) != 0 {
		t.Errorf("failures = %v, want none", s.Failures)
	}
}

func TestSnapshotZeroInvestedGuard(t *testing.T) {
	// Only a non-real grant: no cash invested, P/L undefined, no division
	// error anywhere.
	l := NewLedger()
	l.Append(entryOf(split("2024-01-02", TypeBuy, "free", 10, "usd")))
	prices := &stubPrices{prices: map[string]Money{"free": USD(5)}}
	e := quietEngine(prices, nil)

	s, err := e.SnapshotAt(context.Background(), l, "usd", date.MustParse("2024-02-01"))
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}
	p := s.Positions["free"]
	if !p.Invested.IsZero() {
		t.Errorf("invested = %v, want 0", p.Invested)
	}
	if p.RatioInvested != 0 {
		t.Errorf("ratio invested = %v, want 0", p.RatioInvested)
	}
	if p.PLDefined || !math.IsNaN(p.PL) {
		t.Errorf("PL = %v defined=%v, want NaN undefined", p.PL, p.PLDefined)
	}
	if !p.Value.Equal(USD(50)) {
		t.Errorf("value = %v, want $50", p.Value)
	}
}

func TestSnapshotNoLookAhead(t *testing.T) {
	l := NewLedger()
	l.Append(entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100))))
	prices := &stubPrices{prices: map[string]Money{"aapl": USD(100)}}
	e := quietEngine(prices, nil)
	on := date.MustParse("2024-01-15")

	before, err := e.SnapshotAt(context.Background(), l, "usd", on)
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}

	// Appending a later transaction must not change the picture at on.
	l.Append(entryOf(tx("2024-02-10", 10, TypeSale, "aapl", 10, USD(300))))
	after, err := e.SnapshotAt(context.Background(), l, "usd", on)
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}

	bp, ap := before.Positions["aapl"], after.Positions["aapl"]
	if !bp.Held.Equal(ap.Held) || !bp.Invested.Equal(ap.Invested) || !bp.Realized.Equal(ap.Realized) || !bp.Value.Equal(ap.Value) {
		t.Errorf("snapshot at %s changed after later append:\nbefore %+v\nafter  %+v", on, bp, ap)
	}
}

func TestSnapshotDegradedValuation(t *testing.T) {
	// delisted has no price: its value degrades to zero, aapl is untouched,
	// and the failure is reported.
	l := NewLedger()
	l.Append(
		entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100))),
		entryOf(tx("2024-01-03", 10, TypeBuy, "delisted", 5, USD(10))),
	)
	prices := &stubPrices{prices: map[string]Money{"aapl": USD(150)}}
	e := quietEngine(prices, nil)

	s, err := e.SnapshotAt(context.Background(), l, "usd", date.MustParse("2024-02-01"))
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}
	if got := s.Positions["delisted"].Value; !got.IsZero() {
		t.Errorf("delisted value = %v, want 0", got)
	}
	if got := s.Positions["aapl"].Value; !got.Equal(USD(1500)) {
		t.Errorf("aapl value = %v, want $1500", got)
	}
	if len(s.Failures) != 1 || s.Failures[0].Ticker != "delisted" {
		t.Fatalf("failures = %v, want one for delisted", s.Failures)
	}
	if !s.TotalValue.Equal(USD(1500)) {
		t.Errorf("total value = %v, want $1500", s.TotalValue)
	}
}

func TestSnapshotConvertsToBase(t *testing.T) {
	// usd position valued in a eur portfolio at 0.5 usd->eur.
	l := NewLedger()
	entry := entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100)))
	entry.SharePriceBase = EUR(50)
	entry.AmountBase = EUR(500)
	l.Append(entry)
	prices := &stubPrices{prices: map[string]Money{"aapl": USD(200)}}
	rates := &stubRates{rates: map[string]float64{"usdeur": 0.5}}
	e := quietEngine(prices, rates)

	s, err := e.SnapshotAt(context.Background(), l, "eur", date.MustParse("2024-02-01"))
	if err != nil {
		t.Fatalf("SnapshotAt: %v", err)
	}
	p := s.Positions["aapl"]
	if want := EUR(1000); !p.Value.Equal(want) {
		t.Errorf("value = %v, want %v", p.Value, want)
	}
	if want := EUR(500); !p.Invested.Equal(want) {
		t.Errorf("invested = %v, want %v", p.Invested, want)
	}
	if rates.calls != 1 {
		t.Errorf("rates consulted %d times, want 1", rates.calls)
	}
}

func TestConvertIdentityNeverCallsProvider(t *testing.T) {
	rates := &stubRates{}
	conv := NewCurrencyConverter(rates)
	got, err := conv.Convert(context.Background(), USD(123.45), "usd", date.MustParse("2024-01-01"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !got.Equal(USD(123.45)) {
		t.Errorf("Convert identity = %v, want unchanged", got)
	}
	if rates.calls != 0 {
		t.Errorf("rates consulted %d times on identity conversion, want 0", rates.calls)
	}
}

func TestSeriesAscending(t *testing.T) {
	l := NewLedger()
	l.Append(entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100))))
	prices := &stubPrices{prices: map[string]Money{"aapl": USD(100)}}
	e := quietEngine(prices, nil)

	series, err := e.Series(context.Background(), l, "usd", date.NewRange(date.MustParse("2024-01-01"), date.MustParse("2024-01-04")))
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("len(series) = %d, want 4", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].On.Before(series[i].On) {
			t.Errorf("series not ascending at %d: %s then %s", i, series[i-1].On, series[i].On)
		}
	}
	// Day before the purchase has no position at all.
	if len(series[0].Positions) != 0 {
		t.Errorf("positions before first purchase = %v, want none", series[0].Positions)
	}
	if got := series.Last().Positions["aapl"].Value; !got.Equal(USD(1000)) {
		t.Errorf("last value = %v, want $1000", got)
	}
}

package gator

import (
	"testing"

	"github.com/vozeel/gator/date"
)

func TestFIFORealized(t *testing.T) {
	on := date.MustParse("2024-12-31")
	testCases := []struct {
		name          string
		txs           []Transaction
		wantRealized  Money
		wantUnmatched Quantity
	}{
		{
			name: "two lots partial second",
			txs: []Transaction{
				tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(10)),
				tx("2024-02-01", 10, TypeBuy, "acme", 10, USD(20)),
				tx("2024-03-01", 10, TypeSale, "acme", 15, USD(30)),
			},
			// 10×(30-10) + 5×(30-20)
			wantRealized: USD(250),
		},
		{
			name: "sale overflow stops matching",
			txs: []Transaction{
				tx("2024-01-01", 10, TypeBuy, "acme", 5, USD(10)),
				tx("2024-02-01", 10, TypeSale, "acme", 8, USD(30)),
			},
			wantRealized:  USD(100), // 5×(30-10), the other 3 match nothing
			wantUnmatched: Q(3),
		},
		{
			name: "loss",
			txs: []Transaction{
				tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(50)),
				tx("2024-02-01", 10, TypeSale, "acme", 10, USD(30)),
			},
			wantRealized: USD(-200),
		},
		{
			name: "no sales no realized",
			txs: []Transaction{
				tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(50)),
			},
			wantRealized: USD(0),
		},
		{
			name: "sales match oldest lot first",
			txs: []Transaction{
				tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(10)),
				tx("2024-02-01", 10, TypeSale, "acme", 10, USD(15)), // closes lot 1: +50
				tx("2024-03-01", 10, TypeBuy, "acme", 10, USD(20)),
				tx("2024-04-01", 10, TypeSale, "acme", 5, USD(40)), // from lot 2: +100
			},
			wantRealized: USD(150),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger()
			for _, x := range tc.txs {
				l.Append(entryOf(x))
			}
			realized, unmatched := l.RealizedGains("acme", on)
			if !realized.Equal(tc.wantRealized) {
				t.Errorf("realized = %v, want %v", realized, tc.wantRealized)
			}
			if !unmatched.Equal(tc.wantUnmatched) {
				t.Errorf("unmatched = %v, want %v", unmatched, tc.wantUnmatched)
			}
		})
	}
}

func TestFIFOSplitScalesLots(t *testing.T) {
	// 10 shares @ 40, then a 2:1 split (10 extra non-real shares), then the
	// 20 split-adjusted shares sold at 30. Cost basis per share halves to
	// 20, so realized = 20×(30-20) = 200.
	l := NewLedger()
	l.Append(
		entryOf(tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(40))),
		entryOf(split("2024-02-01", TypeBuy, "acme", 10, "usd")),
		entryOf(tx("2024-03-01", 10, TypeSale, "acme", 20, USD(30))),
	)
	realized, unmatched := l.RealizedGains("acme", date.MustParse("2024-12-31"))
	if want := USD(200); !realized.Equal(want) {
		t.Errorf("realized = %v, want %v", realized, want)
	}
	if !unmatched.IsZero() {
		t.Errorf("unmatched = %v, want 0", unmatched)
	}
}

func TestFIFOSplitLeavesLaterLotsAlone(t *testing.T) {
	// The split predates the second purchase, so only the first lot scales.
	l := NewLedger()
	l.Append(
		entryOf(tx("2024-01-01", 10, TypeBuy, "acme", 10, USD(40))),
		entryOf(split("2024-02-01", TypeBuy, "acme", 10, "usd")), // lot 1 becomes 20 @ 20
		entryOf(tx("2024-03-01", 10, TypeBuy, "acme", 10, USD(25))),
		entryOf(tx("2024-04-01", 10, TypeSale, "acme", 25, USD(30))),
	)
	// 20×(30-20) from the scaled lot, then 5×(30-25) from the untouched one.
	realized, unmatched := l.RealizedGains("acme", date.MustParse("2024-12-31"))
	if want := USD(225); !realized.Equal(want) {
		t.Errorf("realized = %v, want %v", realized, want)
	}
	if !unmatched.IsZero() {
		t.Errorf("unmatched = %v, want 0", unmatched)
	}
}

func TestFIFOReverseSplit(t *testing.T) {
	// 1:2 reverse split: 20 shares @ 10 become 10 @ 20.
	l := NewLedger()
	l.Append(
		entryOf(tx("2024-01-01", 10, TypeBuy, "acme", 20, USD(10))),
		entryOf(split("2024-02-01", TypeSale, "acme", 10, "usd")),
		entryOf(tx("2024-03-01", 10, TypeSale, "acme", 10, USD(25))),
	)
	realized, _ := l.RealizedGains("acme", date.MustParse("2024-12-31"))
	if want := USD(50); !realized.Equal(want) {
		t.Errorf("realized = %v, want %v", realized, want)
	}
}

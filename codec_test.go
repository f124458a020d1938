package gator

import (
	"strings"
	"testing"
)

func TestLedgerCodecRoundTrip(t *testing.T) {
	l := NewLedger()
	e1 := entryOf(tx("2024-01-02", 10, TypeBuy, "aapl", 10, USD(100.5)))
	e1.ID = "a"
	e1.Name = "Apple Inc."
	e1.Tags = []string{"tech", "core"}
	e2 := entryOf(split("2024-02-01", TypeBuy, "aapl", 10, "usd"))
	e2.ID = "b"
	l.Append(e1, e2)

	var buf strings.Builder
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("encoded %d lines, want 2:\n%s", got, buf.String())
	}

	back, err := DecodeLedger(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	if back.Len() != 2 {
		t.Fatalf("decoded %d entries, want 2", back.Len())
	}
	for i, want := range []Entry{e1, e2} {
		var got Entry
		j := 0
		for _, e := range back.Entries() {
			if j == i {
				got = e
			}
			j++
		}
		if got.ID != want.ID || got.Name != want.Name {
			t.Errorf("entry %d = %q %q, want %q %q", i, got.ID, got.Name, want.ID, want.Name)
		}
		if !got.Transaction.Equal(want.Transaction) {
			t.Errorf("entry %d transaction = %v, want %v", i, got.Transaction, want.Transaction)
		}
		if !got.SharePriceBase.Equal(want.SharePriceBase) || !got.AmountBase.Equal(want.AmountBase) {
			t.Errorf("entry %d base figures = %v %v, want %v %v", i, got.SharePriceBase, got.AmountBase, want.SharePriceBase, want.AmountBase)
		}
	}
}

func TestDecodeLedgerRejectsInvalidRows(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{name: "not json", line: "not json"},
		{name: "invalid transaction", line: `{"id":"x","date_hour":"2024-01-02T10:00:00Z","transaction_type":"short","transaction_action":"real","ticker_symbol":"aapl","n_shares":1,"share_price":1,"share_currency":"usd","transact_currency":"usd","fee":0,"share_price_base_currency":1,"transact_amount_base_currency":1,"base_currency":"usd"}`},
		{name: "zero shares", line: `{"id":"x","date_hour":"2024-01-02T10:00:00Z","transaction_type":"buy","transaction_action":"real","ticker_symbol":"aapl","n_shares":0,"share_price":1,"share_currency":"usd","transact_currency":"usd","fee":0,"share_price_base_currency":1,"transact_amount_base_currency":0,"base_currency":"usd"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLedger(strings.NewReader(tc.line + "\n")); err == nil {
				t.Error("DecodeLedger accepted an invalid row")
			}
		})
	}
}

func TestDecodeLedgerRestoresOrder(t *testing.T) {
	// Lines written out of order come back date-sorted.
	later := `{"id":"b","date_hour":"2024-03-01T10:00:00Z","transaction_type":"buy","transaction_action":"real","ticker_symbol":"aapl","n_shares":1,"share_price":1,"share_currency":"usd","transact_currency":"usd","fee":0,"share_price_base_currency":1,"transact_amount_base_currency":1,"base_currency":"usd"}`
	earlier := `{"id":"a","date_hour":"2024-01-01T10:00:00Z","transaction_type":"buy","transaction_action":"real","ticker_symbol":"aapl","n_shares":1,"share_price":1,"share_currency":"usd","transact_currency":"usd","fee":0,"share_price_base_currency":1,"transact_amount_base_currency":1,"base_currency":"usd"}`
	l, err := DecodeLedger(strings.NewReader(later + "\n" + earlier + "\n"))
	if err != nil {
		t.Fatalf("DecodeLedger: %v", err)
	}
	var ids []string
	for _, e := range l.Entries() {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("order = %v, want [a b]", ids)
	}
}

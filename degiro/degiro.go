// Package degiro reads transactions from a Degiro account CSV export.
package degiro

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vozeel/gator"
)

// Columns the adapter needs, by their header names in the export.
const (
	colDateHour         = "Datetime"
	colQuantity         = "Quantity"
	colTicker           = "Ticker_symbol"
	colSharePrice       = "Share_price"
	colShareCurrency    = "Currency_SP"
	colTransactCurrency = "Currency_TPIMC"
	colFee              = "Fee"
)

// dateLayouts are the timestamp formats seen in Degiro exports.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04",
}

// Read parses a Degiro CSV export into transactions, in file order.
//
// The sign of Quantity decides the direction: positive is a buy, negative a
// sale, and the absolute value is the share count. Every row is a real
// transaction; corporate actions do not appear in Degiro exports and must be
// recorded by hand.
func Read(r io.Reader) ([]gator.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{colDateHour, colQuantity, colTicker, colSharePrice, colShareCurrency, colTransactCurrency} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", name)
		}
	}

	var txs []gator.Transaction
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line+1, err)
		}
		line++
		tx, err := parseRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRow(cols map[string]int, record []string) (gator.Transaction, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	dateHour, err := parseDateHour(field(colDateHour))
	if err != nil {
		return gator.Transaction{}, err
	}
	quantity, err := decimal.NewFromString(field(colQuantity))
	if err != nil {
		return gator.Transaction{}, fmt.Errorf("quantity %q: %w", field(colQuantity), err)
	}
	typ := gator.TypeBuy
	if quantity.IsNegative() {
		typ = gator.TypeSale
	}
	price, err := decimal.NewFromString(field(colSharePrice))
	if err != nil {
		return gator.Transaction{}, fmt.Errorf("share price %q: %w", field(colSharePrice), err)
	}
	fee := decimal.Zero
	if f := field(colFee); f != "" {
		// Degiro reports fees as negative cash flow.
		if fee, err = decimal.NewFromString(f); err != nil {
			return gator.Transaction{}, fmt.Errorf("fee %q: %w", f, err)
		}
		fee = fee.Abs()
	}

	return gator.NewTransaction(
		dateHour,
		typ,
		gator.ActionReal,
		field(colTicker),
		gator.Q(quantity.Abs()),
		gator.M(price, field(colShareCurrency)),
		field(colTransactCurrency),
		gator.Q(fee),
	)
}

func parseDateHour(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

// Dedup returns txs with exact duplicates removed, keeping the first
// occurrence. Some exports repeat rows when they span statement periods.
func Dedup(txs []gator.Transaction) []gator.Transaction {
	var out []gator.Transaction
	for _, tx := range txs {
		dup := false
		for _, seen := range out {
			if seen.Equal(tx) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, tx)
		}
	}
	return out
}

package gator

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Numbers are written bare, not as strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// entryRecord is the persisted, flat form of an Entry: one JSON object per
// ledger line.
type entryRecord struct {
	ID               string          `json:"id"`
	DateHour         time.Time       `json:"date_hour"`
	Type             Type            `json:"transaction_type"`
	Action           Action          `json:"transaction_action"`
	Ticker           string          `json:"ticker_symbol"`
	Name             string          `json:"name,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	Shares           decimal.Decimal `json:"n_shares"`
	SharePrice       decimal.Decimal `json:"share_price"`
	ShareCurrency    string          `json:"share_currency"`
	TransactCurrency string          `json:"transact_currency"`
	Fee              decimal.Decimal `json:"fee"`
	SharePriceBase   decimal.Decimal `json:"share_price_base_currency"`
	AmountBase       decimal.Decimal `json:"transact_amount_base_currency"`
	BaseCurrency     string          `json:"base_currency"`
}

func newEntryRecord(e Entry) entryRecord {
	return entryRecord{
		ID:               e.ID,
		DateHour:         e.DateHour(),
		Type:             e.Type(),
		Action:           e.Action(),
		Ticker:           e.Ticker(),
		Name:             e.Name,
		Tags:             e.Tags,
		Shares:           e.Shares().Decimal(),
		SharePrice:       e.SharePrice().Amount(),
		ShareCurrency:    e.SharePrice().Currency(),
		TransactCurrency: e.TransactCurrency(),
		Fee:              e.Fee().Amount(),
		SharePriceBase:   e.SharePriceBase.Amount(),
		AmountBase:       e.AmountBase.Amount(),
		BaseCurrency:     e.SharePriceBase.Currency(),
	}
}

func (r entryRecord) entry() (Entry, error) {
	tx, err := NewTransaction(r.DateHour, r.Type, r.Action, r.Ticker,
		Q(r.Shares), M(r.SharePrice, r.ShareCurrency), r.TransactCurrency, Q(r.Fee))
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Transaction:    tx,
		ID:             r.ID,
		Name:           r.Name,
		Tags:           r.Tags,
		SharePriceBase: M(r.SharePriceBase, r.BaseCurrency),
		AmountBase:     M(r.AmountBase, r.BaseCurrency),
	}, nil
}

// EncodeEntry appends one entry to w as a single JSON line. Appending to an
// existing ledger file keeps it decodable; DecodeLedger restores the date
// order.
func EncodeEntry(w io.Writer, e Entry) error {
	data, err := json.Marshal(newEntryRecord(e))
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// EncodeLedger writes the whole ledger to w, one JSON line per entry, in
// date order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for i, e := range l.Entries() {
		if err := EncodeEntry(w, e); err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
	}
	return nil
}

// DecodeLedger reads a JSON-lines ledger from r. Every line is validated
// through NewTransaction; blank lines are skipped.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec entryRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		entry, err := rec.entry()
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		ledger.Append(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ledger, nil
}

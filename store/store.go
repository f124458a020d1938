// Package store persists ledger entries in a SQLite database. The database
// is a durable mirror of the ledger; everything it holds can be recomputed
// into metrics by the engine after a reload.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/vozeel/gator"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id TEXT PRIMARY KEY,
	date_hour TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	transaction_action TEXT NOT NULL,
	ticker_symbol TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	n_shares TEXT NOT NULL,
	share_price TEXT NOT NULL,
	share_currency TEXT NOT NULL,
	transact_currency TEXT NOT NULL,
	fee TEXT NOT NULL,
	share_price_base_currency TEXT NOT NULL,
	transact_amount_base_currency TEXT NOT NULL,
	base_currency TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_date ON ledger_entries (date_hour);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_ticker ON ledger_entries (ticker_symbol);
`

// Store is a SQLite-backed ledger archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// modernc's driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Append inserts entries, ignoring IDs already present so mirroring after an
// import retry stays idempotent.
func (s *Store) Append(ctx context.Context, entries ...gator.Entry) error {
	const insert = `
INSERT OR IGNORE INTO ledger_entries (
	id, date_hour, transaction_type, transaction_action, ticker_symbol,
	name, tags, n_shares, share_price, share_currency, transact_currency,
	fee, share_price_base_currency, transact_amount_base_currency, base_currency
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, insert,
			e.ID,
			e.DateHour().UTC().Format(time.RFC3339),
			string(e.Type()),
			string(e.Action()),
			e.Ticker(),
			e.Name,
			strings.Join(e.Tags, ","),
			e.SignedShares().String(),
			e.SharePrice().Amount().String(),
			e.SharePrice().Currency(),
			e.TransactCurrency(),
			e.Fee().Amount().String(),
			e.SharePriceBase.Amount().String(),
			e.AmountBase.Amount().String(),
			e.SharePriceBase.Currency(),
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Ledger loads every stored entry into a fresh ledger, in date order.
func (s *Store) Ledger(ctx context.Context) (*gator.Ledger, error) {
	const query = `
SELECT id, date_hour, transaction_type, transaction_action, ticker_symbol,
	name, tags, n_shares, share_price, share_currency, transact_currency,
	fee, share_price_base_currency, transact_amount_base_currency, base_currency
FROM ledger_entries ORDER BY date_hour, rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := gator.NewLedger()
	for rows.Next() {
		var (
			id, dateHour, typ, action, ticker   string
			name, tags, shares, price, priceCur string
			transactCur, fee, priceBase         string
			amountBase, baseCur                 string
		)
		if err := rows.Scan(&id, &dateHour, &typ, &action, &ticker, &name, &tags,
			&shares, &price, &priceCur, &transactCur, &fee, &priceBase, &amountBase, &baseCur); err != nil {
			return nil, err
		}
		entry, err := buildEntry(id, dateHour, typ, action, ticker, name, tags,
			shares, price, priceCur, transactCur, fee, priceBase, amountBase, baseCur)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		ledger.Append(entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger, nil
}

func buildEntry(id, dateHour, typ, action, ticker, name, tags, shares, price,
	priceCur, transactCur, fee, priceBase, amountBase, baseCur string) (gator.Entry, error) {

	when, err := time.Parse(time.RFC3339, dateHour)
	if err != nil {
		return gator.Entry{}, err
	}
	signed, err := decimal.NewFromString(shares)
	if err != nil {
		return gator.Entry{}, err
	}
	priceDec, err := decimal.NewFromString(price)
	if err != nil {
		return gator.Entry{}, err
	}
	feeDec, err := decimal.NewFromString(fee)
	if err != nil {
		return gator.Entry{}, err
	}
	priceBaseDec, err := decimal.NewFromString(priceBase)
	if err != nil {
		return gator.Entry{}, err
	}
	amountBaseDec, err := decimal.NewFromString(amountBase)
	if err != nil {
		return gator.Entry{}, err
	}

	tx, err := gator.NewTransaction(when, gator.Type(typ), gator.Action(action), ticker,
		gator.Q(signed.Abs()), gator.M(priceDec, priceCur), transactCur, gator.Q(feeDec))
	if err != nil {
		return gator.Entry{}, err
	}
	var tagList []string
	if tags != "" {
		tagList = strings.Split(tags, ",")
	}
	return gator.Entry{
		Transaction:    tx,
		ID:             id,
		Name:           name,
		Tags:           tagList,
		SharePriceBase: gator.M(priceBaseDec, baseCur),
		AmountBase:     gator.M(amountBaseDec, baseCur),
	}, nil
}

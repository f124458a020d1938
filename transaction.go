// Package gator tracks a personal investment portfolio: an append-only
// multi-currency transaction ledger, a FIFO realized gain/loss matcher and a
// per-date metrics engine valuing positions in a single base currency.
package gator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vozeel/gator/date"
)

// Type classifies the direction of a transaction.
type Type string

const (
	TypeBuy  Type = "buy"
	TypeSale Type = "sale"
)

// ParseType parses a transaction type from its string form.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(s)); t {
	case TypeBuy, TypeSale:
		return t, nil
	}
	return "", invalid("transaction_type", "%q is not %q or %q", s, TypeBuy, TypeSale)
}

// Action classifies whether a transaction moved actual cash.
//
// A real transaction is a purchase or sale settled with money. A non-real
// transaction records share quantity changes with no cash movement, such as
// stock splits, spin-offs or free-share grants: it changes the held quantity
// but never the invested amount or the realized gains.
type Action string

const (
	ActionReal    Action = "real"
	ActionNonReal Action = "non_real"
)

// ParseAction parses a transaction action from its string form.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(s)); a {
	case ActionReal, ActionNonReal:
		return a, nil
	}
	return "", invalid("transaction_action", "%q is not %q or %q", s, ActionReal, ActionNonReal)
}

// Transaction is a single immutable ledger event. Instances are created with
// NewTransaction only, which validates every field, so a Transaction held by
// a Ledger is always well formed.
type Transaction struct {
	dateHour         time.Time
	typ              Type
	action           Action
	ticker           string
	shares           Quantity // always strictly positive
	sharePrice       Money    // per share, in the instrument's native currency
	transactCurrency string
	fee              Money // in the transact currency
}

// NewTransaction validates all fields and returns a new Transaction.
//
// shares must be strictly positive regardless of type: the sale direction is
// carried by typ, not by a sign. Ticker and currency codes are normalized to
// lower case. The fee, if any, is denominated in the transact currency.
func NewTransaction(dateHour time.Time, typ Type, action Action, ticker string, shares Quantity, sharePrice Money, transactCurrency string, fee Quantity) (Transaction, error) {
	if dateHour.IsZero() {
		return Transaction{}, invalid("date_hour", "is missing")
	}
	if _, err := ParseType(string(typ)); err != nil {
		return Transaction{}, err
	}
	if _, err := ParseAction(string(action)); err != nil {
		return Transaction{}, err
	}
	ticker = strings.ToLower(strings.TrimSpace(ticker))
	if ticker == "" {
		return Transaction{}, invalid("ticker_symbol", "is missing")
	}
	if !shares.IsPositive() {
		return Transaction{}, invalid("n_shares", "%s must be strictly positive", shares)
	}
	if sharePrice.IsNegative() {
		return Transaction{}, invalid("share_price", "%s must not be negative", sharePrice.Amount())
	}
	if err := ValidateCurrency(sharePrice.Currency()); err != nil {
		return Transaction{}, invalid("share_currency", "%v", err)
	}
	if err := ValidateCurrency(transactCurrency); err != nil {
		return Transaction{}, invalid("transact_currency", "%v", err)
	}
	if fee.IsNegative() {
		return Transaction{}, invalid("fee", "%s must not be negative", fee)
	}
	transactCurrency = strings.ToLower(transactCurrency)
	return Transaction{
		dateHour:         dateHour,
		typ:              typ,
		action:           action,
		ticker:           ticker,
		shares:           shares,
		sharePrice:       sharePrice,
		transactCurrency: transactCurrency,
		fee:              M(fee.Decimal(), transactCurrency),
	}, nil
}

func (t Transaction) DateHour() time.Time      { return t.dateHour }
func (t Transaction) Type() Type               { return t.typ }
func (t Transaction) Action() Action           { return t.action }
func (t Transaction) Ticker() string           { return t.ticker }
func (t Transaction) Shares() Quantity         { return t.shares }
func (t Transaction) SharePrice() Money        { return t.sharePrice }
func (t Transaction) TransactCurrency() string { return t.transactCurrency }
func (t Transaction) Fee() Money               { return t.fee }

// IsReal reports whether the transaction moved actual cash.
func (t Transaction) IsReal() bool { return t.action == ActionReal }

// Date returns the calendar date on which the transaction occurred.
func (t Transaction) Date() date.Date { return date.Of(t.dateHour) }

// Direction returns +1 for a buy and -1 for a sale.
func (t Transaction) Direction() int {
	if t.typ == TypeSale {
		return -1
	}
	return 1
}

// SignedShares returns the share quantity signed by direction: positive for
// buys, negative for sales.
func (t Transaction) SignedShares() Quantity {
	if t.typ == TypeSale {
		return t.shares.Neg()
	}
	return t.shares
}

// Amount returns the signed transaction amount in the transact currency:
// signed shares times share price, converted when the share currency differs.
func (t Transaction) Amount(ctx context.Context, conv *CurrencyConverter) (Money, error) {
	gross := t.sharePrice.Mul(t.SignedShares())
	return conv.Convert(ctx, gross, t.transactCurrency, t.Date())
}

// Equal reports whether two transactions describe the same event. It is the
// identity used for import dedup.
func (t Transaction) Equal(u Transaction) bool {
	return t.dateHour.Equal(u.dateHour) &&
		t.typ == u.typ &&
		t.action == u.action &&
		t.ticker == u.ticker &&
		t.shares.Equal(u.shares) &&
		t.sharePrice.Equal(u.sharePrice) &&
		t.transactCurrency == u.transactCurrency &&
		t.fee.Equal(u.fee)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.dateHour.Format("2006-01-02 15:04"), t.typ, t.shares, t.ticker, t.sharePrice)
}

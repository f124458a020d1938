package gator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// supportedCurrencies is the closed set of currency codes a transaction may
// use. Codes are stored lower-case, the ledger's canonical form.
var supportedCurrencies = map[string]struct{}{
	"usd": {}, "eur": {}, "jpy": {}, "gbp": {}, "aud": {}, "cad": {},
	"chf": {}, "cny": {}, "hkd": {}, "nzd": {}, "sgd": {}, "krw": {},
	"inr": {}, "rub": {}, "brl": {}, "mxn": {}, "zar": {}, "try": {},
	"pln": {}, "dkk": {}, "sek": {}, "nok": {}, "czk": {}, "ils": {},
	"myr": {}, "thb": {}, "idr": {}, "huf": {}, "ron": {}, "bgn": {},
	"hrk": {}, "ltl": {}, "php": {},
}

// ValidateCurrency checks that a currency code belongs to the supported set.
func ValidateCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("%w: currency code is missing", ErrUnsupportedCurrency)
	}
	if _, ok := supportedCurrencies[strings.ToLower(code)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return nil
}

// SupportedCurrencies returns the sorted list of supported currency codes.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(supportedCurrencies))
	for code := range supportedCurrencies {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Money represents an exact monetary value in a single currency.
type Money struct {
	value decimal.Decimal // in major units
	cur   string          // lower-case currency code, "" means currency-less
}

// M creates a Money from any numeric value and a currency code.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: strings.ToLower(currency)}
}

// Currency returns the money's lower-case currency code.
func (m Money) Currency() string { return m.cur }

// Amount returns the exact decimal value in major units.
func (m Money) Amount() decimal.Decimal { return m.value }

func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money         { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money         { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) MulRate(rate decimal.Decimal, currency string) Money {
	return Money{value: m.value.Mul(rate), cur: strings.ToLower(currency)}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// cur resolves the currency of a binary operation, treating "" as weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// currency returns the full go-money currency metadata, or nil for codes
// go-money does not know about.
func (m Money) currency() *money.Currency {
	return money.GetCurrency(strings.ToUpper(m.cur))
}

// String formats the money value using the currency's display conventions.
func (m Money) String() string {
	c := m.currency()
	if c == nil {
		return m.value.String() + " " + m.cur
	}
	// Round to the minor unit before formatting; quotients like 400/7
	// carry sub-minor precision that must not be truncated away.
	minor := m.value.Shift(int32(c.Fraction)).Round(0)
	return c.Formatter().Format(minor.IntPart())
}

// SignedString is like String but always carries a sign, and renders zero
// as "-" for compact report tables.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

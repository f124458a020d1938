package gator

import "github.com/shopspring/decimal"

// Quantity represents an exact number of shares of a single security.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity from any numeric value.
func Q[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// newDecimal converts supported numeric types to a decimal.Decimal.
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.New(int64(v), 0)
	case int32:
		return decimal.New(int64(v), 0)
	case int64:
		return decimal.New(v, 0)
	case decimal.Decimal:
		return v
	}
	panic("unreachable")
}

// Decimal returns the exact decimal value.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

func (q Quantity) Equal(r Quantity) bool       { return q.value.Equal(r.value) }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }
func (q Quantity) IsNegative() bool            { return q.value.IsNegative() }
func (q Quantity) LessThan(r Quantity) bool    { return q.value.LessThan(r.value) }
func (q Quantity) GreaterThan(r Quantity) bool { return q.value.GreaterThan(r.value) }
func (q Quantity) Neg() Quantity               { return Quantity{value: q.value.Neg()} }
func (q Quantity) Abs() Quantity               { return Quantity{value: q.value.Abs()} }
func (q Quantity) Add(r Quantity) Quantity     { return Quantity{value: q.value.Add(r.value)} }
func (q Quantity) Sub(r Quantity) Quantity     { return Quantity{value: q.value.Sub(r.value)} }
func (q Quantity) Mul(r Quantity) Quantity     { return Quantity{value: q.value.Mul(r.value)} }
func (q Quantity) Div(r Quantity) Quantity     { return Quantity{value: q.value.Div(r.value)} }

// Min returns the smaller of q and r.
func (q Quantity) Min(r Quantity) Quantity {
	if q.LessThan(r) {
		return q
	}
	return r
}

func (q Quantity) String() string { return q.value.String() }

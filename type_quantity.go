package satstack

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// number lists the types accepted by the Q, M, USD and Pct constructors.
type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

func toDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	panic(fmt.Sprintf("unsupported number %T", value))
}

// SatsPerBTC is the number of satoshis in one bitcoin.
const SatsPerBTC = 100_000_000

// Quantity is an exact amount of bitcoin.
//
// Quantities are never rounded: matching lots against disposals must conserve
// every satoshi.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity of value bitcoins.
func Q[T number](value T) Quantity { return Quantity{value: toDecimal(value)} }

// ParseQuantity parses a decimal amount of bitcoin. Amounts finer than a
// satoshi are rejected.
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, err
	}
	if !d.Shift(8).IsInteger() {
		return Quantity{}, fmt.Errorf("%q is finer than a satoshi", s)
	}
	return Quantity{value: d}, nil
}

// Sats returns the quantity in satoshis, truncated.
func (q Quantity) Sats() int64 { return q.value.Shift(8).IntPart() }

func (q Quantity) Add(o Quantity) Quantity { return Quantity{value: q.value.Add(o.value)} }
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{value: q.value.Sub(o.value)} }
func (q Quantity) Mul(o Quantity) Quantity { return Quantity{value: q.value.Mul(o.value)} }
func (q Quantity) Div(o Quantity) Quantity { return Quantity{value: q.value.Div(o.value)} }

func (q Quantity) Equal(o Quantity) bool       { return q.value.Equal(o.value) }
func (q Quantity) LessThan(o Quantity) bool    { return q.value.LessThan(o.value) }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.GreaterThan(o.value) }

func (q Quantity) IsZero() bool     { return q.value.IsZero() }
func (q Quantity) IsNegative() bool { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool { return q.value.IsPositive() }

func (q Quantity) String() string { return q.value.String() }

// Min returns the smaller of q and o.
func (q Quantity) Min(o Quantity) Quantity {
	if o.LessThan(q) {
		return o
	}
	return q
}

// MarshalJSON writes the quantity as a bare JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) { return []byte(q.value.String()), nil }

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (q *Quantity) UnmarshalJSON(b []byte) error { return q.value.UnmarshalJSON(b) }

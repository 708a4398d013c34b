package satstack

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Fiat is the currency every ledger amount is expressed in.
const Fiat = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T number](value T, currency string) Money {
	return Money{value: toDecimal(value), cur: currency}
}

// USD is a shortcut for M(value, Fiat).
func USD[T number](value T) Money {
	return M(value, Fiat)
}

// ParseMoney parses a decimal string into an amount of Fiat.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d, cur: Fiat}, nil
}

// functions that requires the full currency

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// fraction returns the number of minor unit digits of the currency.
func (m Money) fraction() int32 {
	if m.cur == "" {
		return 2
	}
	return int32(m.currency().Fraction)
}

// String returns the string representation of the money value.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(2)
	}
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Decimal returns the amount rounded to the currency minor unit, without
// currency symbol nor grouping, e.g. "-1234.50".
func (m Money) Decimal() string {
	return m.value.StringFixed(m.fraction())
}

// Simple wrapper around money.Money

func (m Money) Currency() string                { return m.cur }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// Prorate returns the share of m corresponding to part out of whole, rounded
// to the currency minor unit.
//
// whole must not be zero.
func (m Money) Prorate(part, whole Quantity) Money {
	// multiply first to keep all the digits of m.
	v := m.value.Mul(part.value).Div(whole.value)
	return Money{value: v, cur: m.cur}.Round()
}

// Round returns m rounded to its currency minor unit, half away from zero.
func (m Money) Round() Money {
	return Money{value: m.value.Round(m.fraction()), cur: m.cur}
}

// Floor returns m, or zero when m is negative.
func (m Money) Floor() Money {
	if m.IsNegative() {
		return Money{cur: m.cur}
	}
	return m
}

// AsFloat returns an approximation of m, for display purposes only.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON writes the amount as a bare decimal number, rounded to the minor unit.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.Round().value.MarshalJSON()
}

// UnmarshalJSON reads a bare decimal number as an amount of Fiat.
func (m *Money) UnmarshalJSON(b []byte) error {
	if err := m.value.UnmarshalJSON(b); err != nil {
		return err
	}
	m.cur = Fiat
	return nil
}

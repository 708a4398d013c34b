package satstack

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a rate expressed in percent, e.g. Percent 25 is 25%.
type Percent struct {
	value decimal.Decimal
}

// Pct creates a Percent.
func Pct[T number](value T) Percent {
	return Percent{value: toDecimal(value)}
}

// ParsePercent parses a string like "25" or "25%".
func ParsePercent(s string) (Percent, error) {
	if n := len(s); n > 0 && s[n-1] == '%' {
		s = s[:n-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percent{}, fmt.Errorf("invalid percent %q: %w", s, err)
	}
	return Percent{value: d}, nil
}

// Of returns p percent of m. The result is not rounded.
func (p Percent) Of(m Money) Money {
	return Money{value: m.value.Mul(p.value).Div(decimal.NewFromInt(100)), cur: m.cur}
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }
func (p Percent) IsNegative() bool     { return p.value.IsNegative() }

// GreaterThan reports whether p > q.
func (p Percent) GreaterThan(q Percent) bool { return p.value.GreaterThan(q.value) }

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// MarshalJSON writes the rate as a bare number.
func (p Percent) MarshalJSON() ([]byte, error) { return p.value.MarshalJSON() }

// UnmarshalJSON reads a bare number.
func (p *Percent) UnmarshalJSON(b []byte) error { return p.value.UnmarshalJSON(b) }

package money

import (
	"fmt"
	"strings"
)

// Amount is a fixed-point currency value stored as an integer number of
// 1e-8 units. The scale is generous enough for assets quoted to 7-8
// fractional digits while keeping arithmetic exact for ordinary dollar
// amounts.
type Amount int64

// Scale is the number of minor units per whole unit.
const Scale = 100_000_000

const maxFractionDigits = 8

// Parse converts a decimal string such as "1234.5" into an Amount.
// It rejects malformed input and values with more fractional digits than
// the fixed scale can hold, rather than silently dropping precision.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > maxFractionDigits {
		return 0, fmt.Errorf("amount %q exceeds %d fractional digits", s, maxFractionDigits)
	}

	var units int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		units = units*10 + int64(c-'0')
		if units > (1<<62)/Scale {
			return 0, fmt.Errorf("amount %q out of range", s)
		}
	}
	units *= Scale

	mul := int64(Scale / 10)
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		units += int64(c-'0') * mul
		mul /= 10
	}

	if neg {
		units = -units
	}
	return Amount(units), nil
}

// MustParse is Parse for known-good literals, mainly in tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount with at least two decimal places, trimming
// trailing zeros beyond that. Output is deterministic for a given value.
func (a Amount) String() string {
	neg := a < 0
	if neg {
		a = -a
	}

	whole := int64(a) / Scale
	frac := int64(a) % Scale

	fracStr := fmt.Sprintf("%08d", frac)
	fracStr = strings.TrimRight(fracStr, "0")
	for len(fracStr) < 2 {
		fracStr += "0"
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

// Format renders the amount with a currency symbol and thousands grouping,
// e.g. "$1,234.50".
func (a Amount) Format() string {
	s := a.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if neg {
		return "-$" + b.String() + frac
	}
	return "$" + b.String() + frac
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// Cmp compares a with b, returning -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

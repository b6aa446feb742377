package envelope

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value as a signed count of the smallest
// currency unit (cents). All arithmetic is exact integer arithmetic; derived
// values that need division go through [Money.Decimal] and are re-quantized
// with round-half-up on the final cent.
type Money struct {
	cents int64
}

// Cents returns the Money worth the given number of cents.
func Cents(c int64) Money { return Money{cents: c} }

// FromMajorMinor returns the Money worth units dollars and subunits cents.
// The sign of units carries: FromMajorMinor(-10, 50) is -$10.50. Subunits
// beyond 99 carry into units.
func FromMajorMinor(units, subunits int64) Money {
	if subunits < 0 {
		subunits = -subunits
	}
	units += (subunits / 100) * sign64(units)
	subunits = subunits % 100
	if units < 0 {
		return Money{cents: units*100 - subunits}
	}
	return Money{cents: units*100 + subunits}
}

func sign64(v int64) int64 {
	if v < 0 {
		return -1
	}
	return 1
}

// displayCurrency is the currency used to render Money values. It is set
// once at startup from the book settings.
var displayCurrency = money.USD

// SetDisplayCurrency changes the currency code used by String. Unknown codes
// are ignored and the current currency is kept.
func SetDisplayCurrency(code string) {
	if money.GetCurrency(code) != nil {
		displayCurrency = code
	}
}

// Cents returns the raw count of smallest currency units.
func (m Money) Cents() int64 { return m.cents }

// String renders the value with the display currency symbol and grouping,
// e.g. "$1,234.56" and "-$10.50".
func (m Money) String() string {
	return money.New(m.cents, displayCurrency).Display()
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-".
func (m Money) SignedString() string {
	if m.cents == 0 {
		return "-"
	}
	if m.cents > 0 {
		return "+" + m.String()
	}
	return m.String()
}

// Simple exact wrappers.

func (m Money) Equal(n Money) bool              { return m.cents == n.cents }
func (m Money) IsZero() bool                    { return m.cents == 0 }
func (m Money) IsPositive() bool                { return m.cents > 0 }
func (m Money) IsNegative() bool                { return m.cents < 0 }
func (m Money) LessThan(n Money) bool           { return m.cents < n.cents }
func (m Money) LessThanOrEqual(n Money) bool    { return m.cents <= n.cents }
func (m Money) GreaterThan(n Money) bool        { return m.cents > n.cents }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.cents >= n.cents }
func (m Money) Neg() Money                      { return Money{cents: -m.cents} }

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

// Sign returns -1, 0 or +1.
func (m Money) Sign() int {
	switch {
	case m.cents < 0:
		return -1
	case m.cents > 0:
		return 1
	default:
		return 0
	}
}

// Cmp returns -1, 0 or +1 comparing m to n.
func (m Money) Cmp(n Money) int {
	switch {
	case m.cents < n.cents:
		return -1
	case m.cents > n.cents:
		return 1
	default:
		return 0
	}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{cents: m.cents + n.cents} }
func (m Money) Sub(n Money) Money { return Money{cents: m.cents - n.cents} }

// Decimal returns the value in major units as an exact decimal, for derived
// display computation only.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.cents, -2) }

// quantize converts a major-unit decimal back to Money, rounding half-up on
// the final cent.
func quantize(d decimal.Decimal) Money {
	return Money{cents: d.Shift(2).Round(0).IntPart()}
}

// quantizeCeil converts a major-unit decimal back to Money, rounding any
// fraction of a cent up. Used for goal suggestions that must not underfund.
func quantizeCeil(d decimal.Decimal) Money {
	return Money{cents: d.Shift(2).Ceil().IntPart()}
}

// ParseMoney parses a user-entered amount. Accepted forms: "10", "10.5",
// "10.50", "$10.50", "-10.50", "-$10.50", "($10.50)", "1,234.56". More than
// two fractional digits, stray text, or values outside the int64 cent range
// are rejected.
func ParseMoney(str string) (Money, error) {
	s := strings.TrimSpace(str)
	if s == "" {
		return Money{}, fmt.Errorf("invalid amount %q: empty", str)
	}

	neg := false
	// Accounting style parentheses mean negative.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	switch {
	case strings.HasPrefix(s, "-"):
		neg = !neg
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return Money{}, fmt.Errorf("invalid amount %q: no digits", str)
	}

	units := s
	subunits := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		units, subunits = s[:i], s[i+1:]
		if len(subunits) == 0 || len(subunits) > 2 {
			return Money{}, fmt.Errorf("invalid amount %q: want at most two decimal digits", str)
		}
	}
	if units == "" {
		units = "0"
	}
	if !isDigits(units) || !isDigits(subunits) {
		return Money{}, fmt.Errorf("invalid amount %q: not a number", str)
	}

	var cents int64
	for _, r := range units {
		d := int64(r - '0')
		if cents > (math.MaxInt64-d)/10 {
			return Money{}, fmt.Errorf("invalid amount %q: overflow", str)
		}
		cents = cents*10 + d
	}
	if cents > math.MaxInt64/100 {
		return Money{}, fmt.Errorf("invalid amount %q: overflow", str)
	}
	cents *= 100
	switch len(subunits) {
	case 1:
		cents += int64(subunits[0]-'0') * 10
	case 2:
		cents += int64(subunits[0]-'0')*10 + int64(subunits[1]-'0')
	}

	if neg {
		cents = -cents
	}
	return Money{cents: cents}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustMoney is like ParseMoney but panics on error.
func MustMoney(str string) Money {
	m, err := ParseMoney(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Money persists as its raw cent count.

func (m Money) MarshalJSON() ([]byte, error) { return json.Marshal(m.cents) }

func (m *Money) UnmarshalJSON(b []byte) error {
	var c int64
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("invalid amount %s: want integer cents: %w", string(b), err)
	}
	m.cents = c
	return nil
}

var _ json.Marshaler = (*Money)(nil)
var _ json.Unmarshaler = (*Money)(nil)

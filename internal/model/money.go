package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in fils (1/100 AED).
type Money int64

// AED is one dirham.
const AED Money = 100

// ParseMoney parses a decimal amount such as "200", "199.5" or "-12.25".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	whole, frac, hasFrac := strings.Cut(body, ".")
	if whole == "" || !isDigits(whole) || (hasFrac && (len(frac) == 0 || len(frac) > 2 || !isDigits(frac))) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	var fils int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		fils, _ = strconv.ParseInt(frac, 10, 64)
	}
	m := Money(units*100 + fils)
	if neg {
		m = -m
	}
	return m, nil
}

// Decimal renders the amount as "200.00".
func (m Money) Decimal() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// String renders the amount with its currency, e.g. "AED 200.00".
func (m Money) String() string {
	return "AED " + m.Decimal()
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.Decimal()), nil
}

func (m *Money) UnmarshalText(b []byte) error {
	v, err := ParseMoney(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalJSON accepts both "199.50" and 199.5.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return nil
	}
	return m.UnmarshalText([]byte(s))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

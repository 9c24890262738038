package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// Amounts are held as integer cents so that totals stay exact: summing
// stored entries never drifts the way repeated float addition can. A
// leading sign is accepted, so negative amounts (refunds, corrections)
// parse fine; a zero amount does not.
//
// Examples:
//
//	ParseAmountToCents("4.50")  -> 450, nil
//	ParseAmountToCents("1.005") -> 101, nil (rounds up)
//	ParseAmountToCents("-5")    -> -500, nil
//	ParseAmountToCents("0")     -> 0, ErrInvalidAmount
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	// Reject values whose cents exceed int64. fracCents must be part of
	// the guard or the add below can wrap past MaxInt64.
	const maxInt64 = 1<<63 - 1
	if iv > (maxInt64-fracCents)/100 {
		return 0, ErrInvalidAmount
	}
	cents := iv*100 + fracCents
	if cents == 0 {
		return 0, ErrInvalidAmount
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Format renders the amount with a leading dollar sign and exactly two
// decimals. The sign stays with the number: "$-5.00", not "-$5.00".
func (m Money) Format() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("$%s%d.%02d", sign, cents/100, cents%100)
}

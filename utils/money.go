package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency is handled as int64 minor units (cents) everywhere; multipliers
// are int64 hundredths (x1.35 == 135). Floating point never touches a
// balance.

// ApplyMultiplier returns amount scaled by a hundredths multiplier, rounded
// half-up. Both arguments must be non-negative.
func ApplyMultiplier(amount, multHundredths int64) int64 {
	return (amount*multHundredths + 50) / 100
}

// FormatMoney renders cents as "$1,234.56".
func FormatMoney(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%s.%02d", groupThousands(cents/100), cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// FormatMultiplier renders a hundredths multiplier as "x1.35".
func FormatMultiplier(multHundredths int64) string {
	return fmt.Sprintf("x%d.%02d", multHundredths/100, multHundredths%100)
}

func groupThousands(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// ParseAmount parses a user-supplied amount against an available balance.
// Accepts "all"/"a", "half"/"h", percentages ("25%"), k/m suffixes ("10k",
// "1.5m") and literals with up to two decimals ("250", "250.50"). Returns
// cents; non-positive results are ErrInvalidAmount.
func ParseAmount(spec string, available int64) (int64, error) {
	spec = strings.TrimSpace(strings.ToLower(spec))
	spec = strings.ReplaceAll(spec, ",", "")
	spec = strings.ReplaceAll(spec, "_", "")
	spec = strings.TrimPrefix(spec, "$")

	switch spec {
	case "":
		return 0, ErrInvalidAmount
	case "all", "allin", "a", "max":
		return checkPositive(available)
	case "half", "h":
		return checkPositive(available / 2)
	}

	if strings.HasSuffix(spec, "%") {
		percent, err := strconv.ParseInt(strings.TrimSuffix(spec, "%"), 10, 64)
		if err != nil || percent < 0 || percent > 100 {
			return 0, ErrInvalidAmount
		}
		return checkPositive(available * percent / 100)
	}

	multiplier := int64(1)
	if strings.HasSuffix(spec, "k") {
		multiplier = 1_000
		spec = strings.TrimSuffix(spec, "k")
	} else if strings.HasSuffix(spec, "m") {
		multiplier = 1_000_000
		spec = strings.TrimSuffix(spec, "m")
	}

	cents, err := parseCents(spec)
	if err != nil {
		return 0, err
	}
	return checkPositive(cents * multiplier)
}

// parseCents converts a decimal string with at most two fraction digits to
// cents without going through float64.
func parseCents(s string) (int64, error) {
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	var wholeVal int64
	if whole != "" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || v < 0 {
			return 0, ErrInvalidAmount
		}
		wholeVal = v
	}
	fracVal, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || fracVal < 0 {
		return 0, ErrInvalidAmount
	}
	return wholeVal*100 + fracVal, nil
}

func checkPositive(cents int64) (int64, error) {
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

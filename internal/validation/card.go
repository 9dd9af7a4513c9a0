// Package validation contains the pure payment-instrument checks: account
// number checksum, expiry, security code, and brand classification. It has
// no dependencies on the rest of the service.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// Card brands
const (
	BrandVisa       = "visa"
	BrandMastercard = "mastercard"
	BrandAmex       = "amex"
	BrandDiscover   = "discover"
	BrandUnknown    = "unknown"
)

type CardInstrument struct {
	Number string
	Expiry string
	CVV    string
}

// ValidateInstrument runs every check regardless of earlier failures and
// returns all failing reasons together, so a caller can surface every
// problem at once. A nil result means the instrument is valid.
func ValidateInstrument(card CardInstrument, now time.Time) []string {
	var reasons []string

	number := stripSpaces(card.Number)
	if !isDigits(number) || len(number) < 13 || len(number) > 19 {
		reasons = append(reasons, "card number must be 13-19 digits")
	} else if !Luhn(number) {
		reasons = append(reasons, "card number failed checksum")
	}

	if reason := validateExpiry(card.Expiry, now); reason != "" {
		reasons = append(reasons, reason)
	}

	if !isDigits(card.CVV) || (len(card.CVV) != 3 && len(card.CVV) != 4) {
		reasons = append(reasons, "security code must be 3 or 4 digits")
	}

	return reasons
}

// Luhn reports whether a digit string satisfies the mod-10 checksum: double
// every second digit from the rightmost, subtract 9 from doubles above 9,
// and require the digit sum to be divisible by 10.
func Luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Classify returns the card brand by leading-digit prefix. Classification
// does not depend on checksum validity.
func Classify(number string) string {
	number = stripSpaces(number)
	if number == "" || !isDigits(number) {
		return BrandUnknown
	}

	switch {
	case strings.HasPrefix(number, "4"):
		return BrandVisa
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return BrandAmex
	case strings.HasPrefix(number, "6"):
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

// MaskNumber keeps only the last four digits for display and storage.
func MaskNumber(number string) string {
	number = stripSpaces(number)
	if len(number) <= 4 {
		return number
	}
	return fmt.Sprintf("****%s", number[len(number)-4:])
}

func validateExpiry(expiry string, now time.Time) string {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 ||
		!isDigits(parts[0]) || !isDigits(parts[1]) {
		return "expiry must be in MM/YY format"
	}

	month := int(parts[0][0]-'0')*10 + int(parts[0][1]-'0')
	year := 2000 + int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')
	if month < 1 || month > 12 {
		return "expiry must be in MM/YY format"
	}

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return "card is expired"
	}
	return ""
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package money

import (
	"strconv"
	"strings"

	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
)

// VATRate is the VAT percentage applied to all invoices, regardless of
// organization or currency.
const VATRate = 0.21

// ParseAmount parses a decimal amount stored as a string. Amounts arrive from
// free-text form fields, so malformed or empty input degrades to 0 rather
// than failing.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// VAT returns the VAT owed on a pre-tax subtotal.
func VAT(subtotal string) float64 {
	return ParseAmount(subtotal) * VATRate
}

// Total returns the VAT-inclusive total for a pre-tax subtotal.
func Total(subtotal string) float64 {
	sub := ParseAmount(subtotal)
	return sub + sub*VATRate
}

// PaymentAmount returns the amount owed when a client project reaches the
// given stage. The two payment milestones each carry 50% of the VAT-inclusive
// total. The terminal completed stage returns nil: nothing further is owed,
// which callers must render differently from an amount of zero. All other
// stages owe 0.
func PaymentAmount(subtotal string, st stage.Stage) *float64 {
	switch st {
	case stage.PayFirst, stage.PayFinal:
		half := Total(subtotal) / 2
		return &half
	case stage.Completed:
		return nil
	default:
		zero := 0.0
		return &zero
	}
}

// FormatAmount renders an amount as a plain decimal string with two decimal
// places, the storage format for all monetary columns.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

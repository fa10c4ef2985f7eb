package money

import (
	"math"
	"testing"

	"github.com/Jurredr/exo-client-portal-sub000/internal/stage"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain integer", "1000", 1000},
		{"decimal", "1234.56", 1234.56},
		{"leading whitespace", "  42.5", 42.5},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"mixed garbage", "12abc", 0},
		{"negative", "-50", -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.input); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVATAndTotal(t *testing.T) {
	if got := VAT("1000"); !almostEqual(got, 210) {
		t.Errorf("VAT(1000) = %v, want 210", got)
	}
	if got := Total("1000"); !almostEqual(got, 1210) {
		t.Errorf("Total(1000) = %v, want 1210", got)
	}
	if got := Total("not-a-number"); got != 0 {
		t.Errorf("Total(invalid) = %v, want 0", got)
	}
}

func TestPaymentAmountMilestones(t *testing.T) {
	first := PaymentAmount("1000", stage.PayFirst)
	final := PaymentAmount("1000", stage.PayFinal)

	if first == nil || final == nil {
		t.Fatal("milestone payments should not be nil")
	}
	if !almostEqual(*first, 605) {
		t.Errorf("first payment = %v, want 605", *first)
	}
	if !almostEqual(*final, 605) {
		t.Errorf("final payment = %v, want 605", *final)
	}

	// The two installments together cover the full total to the cent.
	if !almostEqual(*first+*final, Total("1000")) {
		t.Errorf("installments sum to %v, want %v", *first+*final, Total("1000"))
	}
}

func TestPaymentAmountCompletedIsNil(t *testing.T) {
	if got := PaymentAmount("1000", stage.Completed); got != nil {
		t.Errorf("completed stage should owe nil, got %v", *got)
	}

	// Zero is a distinct, observable value from the nil sentinel.
	kickOff := PaymentAmount("1000", stage.KickOff)
	if kickOff == nil {
		t.Fatal("kick_off should owe a value, not nil")
	}
	if *kickOff != 0 {
		t.Errorf("kick_off payment = %v, want 0", *kickOff)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(605.0); got != "605.00" {
		t.Errorf("FormatAmount(605) = %q, want \"605.00\"", got)
	}
	if got := FormatAmount(12.3); got != "12.30" {
		t.Errorf("FormatAmount(12.3) = %q, want \"12.30\"", got)
	}
}

package checkout

import (
	"fmt"
	"strings"
)

// Summary is the checkout view payload: a formatted total plus the two
// navigation actions the storefront offers. Pure presentation, the
// amount stays in minor units for the payment handoff.
type Summary struct {
	AmountMinor int64    `json:"amountMinor"`
	Total       string   `json:"total"`
	Actions     []Action `json:"actions"`
}

// Action is a navigation hint for the calling UI.
type Action struct {
	Label       string `json:"label"`
	Target      string `json:"target"`
	AmountMinor int64  `json:"amountMinor,omitempty"`
}

// NewSummary builds the summary for an amount in minor units; a
// missing amount is treated as zero.
func NewSummary(amountMinor int64) Summary {
	return Summary{
		AmountMinor: amountMinor,
		Total:       FormatMinorUnits(amountMinor),
		Actions: []Action{
			{Label: "Proceed to Pay", Target: "/payments", AmountMinor: amountMinor},
			{Label: "Edit Shipping Details", Target: "/shipping"},
		},
	}
}

// FormatMinorUnits renders an amount of currency minor units as major
// units with two fixed decimals and thousands separators:
// 123456 -> "1,234.56", 0 -> "0.00".
func FormatMinorUnits(amountMinor int64) string {
	negative := amountMinor < 0
	if negative {
		amountMinor = -amountMinor
	}

	major := amountMinor / 100
	minor := amountMinor % 100

	digits := fmt.Sprintf("%d", major)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s.%02d", b.String(), minor)
}

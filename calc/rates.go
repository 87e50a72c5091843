package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// profileRate maps a credit-profile label fragment to its annual nominal
// rate. Matching is case-insensitive substring: source systems prefix and
// suffix these labels inconsistently, so an exact-match table would miss
// most rows.
type profileRate struct {
	fragment string
	rate     decimal.Decimal
}

var profileRates = []profileRate{
	{"employee benefits", decimal.RequireFromString("0.26")},
	{"visa básica", decimal.RequireFromString("0.65")},
	{"visa basica", decimal.RequireFromString("0.65")},
	{"visa platinum", decimal.RequireFromString("0.349")},
	{"visa clásica", decimal.RequireFromString("0.60")},
	{"visa clasica", decimal.RequireFromString("0.60")},
	{"visa oro", decimal.RequireFromString("0.50")},
	{"visa infinite", decimal.RequireFromString("0.305")},
}

var daysPerYear = decimal.NewFromInt(360)

// RateForProfile resolves the annual nominal rate for a credit-profile
// label. Unmatched labels resolve to zero, not an error: downstream
// formulas then produce zero interest, which is the wanted signal for an
// unknown product.
func RateForProfile(label string) decimal.Decimal {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, pr := range profileRates {
		if strings.Contains(needle, pr.fragment) {
			return pr.rate
		}
	}
	return decimal.Zero
}

// DailyRate converts an annual nominal rate to its 360-day daily rate.
func DailyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(daysPerYear)
}

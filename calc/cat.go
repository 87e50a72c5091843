package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	irrSeed       = 0.01
	irrMaxIter    = 100
	irrTolerance  = 1e-7
	annualPeriods = 11
)

// CATResult carries the annual cost rate or, when the cash-flow series is
// degenerate or the root-finder fails to converge, a diagnostic instead.
// Valid is false on failure; Value is zero then and must not be compared.
type CATResult struct {
	Value      decimal.Decimal
	Valid      bool
	Diagnostic string
}

// CAT estimates the annual cost rate from the account's dated cash-flow
// series: Newton iteration on the net present value finds the periodic
// internal rate, which is then compounded over the statement year and
// expressed as a percentage.
//
// The root-finder runs in float64. Fractional-day discounting needs real
// exponents, and the final value is only ever compared at two decimals, so
// nothing is lost leaving the fixed-point representation here.
func CAT(flows []CashFlow) CATResult {
	if len(flows) < 2 {
		return CATResult{Diagnostic: "cash-flow series has fewer than 2 flows"}
	}

	base := flows[0].At
	amounts := make([]float64, len(flows))
	years := make([]float64, len(flows))
	positive, negative := false, false
	for i, f := range flows {
		amounts[i] = f.Amount.InexactFloat64()
		years[i] = float64(DaysBetween(base, f.At, false)) / 365.0
		if amounts[i] > 0 {
			positive = true
		}
		if amounts[i] < 0 {
			negative = true
		}
	}
	if !positive || !negative {
		return CATResult{Diagnostic: "cash-flow series has no sign change"}
	}

	rate, ok := newtonIRR(amounts, years)
	if !ok {
		return CATResult{Diagnostic: "internal rate of return did not converge"}
	}

	cat := math.Pow(1+rate, annualPeriods) * 100
	if math.IsNaN(cat) || math.IsInf(cat, 0) {
		return CATResult{Diagnostic: "annualized rate is not finite"}
	}
	return CATResult{Value: decimal.NewFromFloat(cat), Valid: true}
}

// newtonIRR finds r with Σ amount_i/(1+r)^years_i = 0 by Newton iteration.
func newtonIRR(amounts, years []float64) (float64, bool) {
	r := irrSeed
	for i := 0; i < irrMaxIter; i++ {
		if r <= -1 {
			return 0, false
		}
		var npv, dnpv float64
		for j := range amounts {
			disc := math.Pow(1+r, years[j])
			npv += amounts[j] / disc
			dnpv -= amounts[j] * years[j] / (disc * (1 + r))
		}
		if math.IsNaN(npv) || math.IsInf(npv, 0) || dnpv == 0 {
			return 0, false
		}
		step := npv / dnpv
		r -= step
		if math.Abs(step) < irrTolerance {
			return r, true
		}
	}
	return 0, false
}

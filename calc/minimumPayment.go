package calc

import (
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/shopspring/decimal"
)

var (
	limitFactor     = decimal.RequireFromString("0.0125")
	balanceFactor   = decimal.RequireFromString("0.05")
	compoundFactor  = decimal.RequireFromString("0.015")
	payInFullFactor = decimal.RequireFromString("0.2210")
)

// MinimumPayment recomputes the contractual minimum payment. Three
// candidates compete and the one with the largest absolute value wins,
// keeping its sign; ties favor the earlier candidate. Pay-in-full
// promotions follow their own rule keyed on the reported minimum.
func MinimumPayment(in Inputs) decimal.Decimal {
	if in.PromotionType == models.PromotionPayInFull {
		floor := in.CreditLimit.Mul(limitFactor)
		if in.ReportedMinimumPayment.Abs().LessThanOrEqual(floor) {
			return floor.Neg()
		}
		return in.ClosingBalance.Abs().Mul(payInFullFactor).Neg()
	}

	netClosing := in.ClosingBalance.Sub(in.PromoPendingAmount)

	p1 := in.CreditLimit.Mul(limitFactor)
	p2 := netClosing.Mul(balanceFactor).Add(in.PromoPartialPayment.Mul(balanceFactor))
	p3 := netClosing.Mul(compoundFactor).Add(in.Movements.InterestCharged).
		Mul(compoundFactor).Add(in.Movements.InterestCharged)

	switch {
	case p1.Abs().GreaterThanOrEqual(p2.Abs()) && p1.Abs().GreaterThanOrEqual(p3.Abs()):
		return p1
	case p2.Abs().GreaterThanOrEqual(p3.Abs()):
		return p2
	default:
		return p3
	}
}

package calc

import (
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PromoInterest recomputes the interest accrued on a promotion's pending
// amount from the account's first transaction through cutoff, both days
// billable. Pay-in-full promotions with nothing pending owe exactly zero
// whatever the rate says, and an account with no movements has no accrual
// basis at all.
func PromoInterest(in Inputs) decimal.Decimal {
	if in.PromotionType == models.PromotionPayInFull && in.PromoPendingAmount.IsZero() {
		return decimal.Zero
	}
	if in.Movements.FirstTxnAt == nil {
		return decimal.Zero
	}

	daily := in.PromoInterestRate.Div(hundred).Div(daysPerYear)
	days := decimal.NewFromInt(int64(DaysBetween(*in.Movements.FirstTxnAt, in.CutoffDate, true)))
	return in.PromoPendingAmount.Mul(daily).Mul(days)
}

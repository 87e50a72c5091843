package calc

import "github.com/shopspring/decimal"

// InterestInFavor recomputes interest owed to the customer on a credit
// balance: only a positive opening balance accrues, at the promotion's
// daily rate, over the span from the last transaction to cutoff.
func InterestInFavor(in Inputs) decimal.Decimal {
	if !in.OpeningBalance.IsPositive() {
		return decimal.Zero
	}
	if in.Movements.LastTxnAt == nil {
		return decimal.Zero
	}

	daily := in.PromoInterestRate.Div(hundred).Div(daysPerYear)
	days := decimal.NewFromInt(int64(DaysBetween(*in.Movements.LastTxnAt, in.CutoffDate, false)))
	return in.OpeningBalance.Mul(daily).Mul(days)
}

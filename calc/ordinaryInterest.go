package calc

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// OrdinaryInterest recomputes the cycle's ordinary interest: the average of
// the absolute opening and closing balances, adjusted by the no-interest
// payment amount, accruing at the profile's daily rate over the credit days
// between cutoff and due date (both endpoints billable).
func OrdinaryInterest(in Inputs) decimal.Decimal {
	avgBalance := in.OpeningBalance.Abs().Add(in.ClosingBalance.Abs()).Div(two).
		Add(in.ReportedNoInterestPayment.Abs())
	daily := DailyRate(RateForProfile(in.CreditProfile))
	days := decimal.NewFromInt(int64(CreditDays(in.CutoffDate, in.DueDate)))
	return avgBalance.Mul(daily).Mul(days)
}

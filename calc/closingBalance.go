package calc

import "github.com/shopspring/decimal"

// ClosingBalance recomputes the month-end balance from the billing-window
// movement sums: opening plus purchases, interest and fees, minus payments.
// The window filtering (first of month through cutoff day, hour < 22) has
// already been applied by AggregateMovements.
func ClosingBalance(in Inputs) decimal.Decimal {
	return in.OpeningBalance.
		Add(in.Movements.Purchases).
		Add(in.Movements.Interest).
		Add(in.Movements.Fees).
		Sub(in.Movements.Payments)
}

package calc

import (
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/shopspring/decimal"
)

var msiPendingFactor = decimal.RequireFromString("0.3126")

// NoInterestPayment recomputes the payment that avoids ordinary interest:
// the closing balance net of the promotion's pending amount and interest,
// plus any partial payment already made and the amount past due.
//
// The pending amount depends on the promotion type: no-interest installment
// plans replace it with a fixed fraction of the total amount, and
// interest-bearing plans with the unbilled installments' share.
func NoInterestPayment(in Inputs) decimal.Decimal {
	pending := in.PromoPendingAmount

	switch in.PromotionType {
	case models.PromotionInstallmentsNoInterest:
		pending = in.PromoTotalAmount.Mul(msiPendingFactor).Neg()
	case models.PromotionInstallmentsWithInterest:
		if in.PromoInstallments > 0 {
			n := decimal.NewFromInt(int64(in.PromoInstallments))
			pending = in.PromoTotalAmount.Mul(n.Sub(decimal.NewFromInt(1))).Div(n).Neg()
		}
	}

	return in.ClosingBalance.
		Sub(pending.Add(in.PromoTotalInterest)).
		Add(in.PromoPartialPayment).
		Add(in.ReportedPastDueAmount)
}

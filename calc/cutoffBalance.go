package calc

import "github.com/shopspring/decimal"

// CutoffBalanceResult validates the reported closing balance against the
// statement-line identity opening + purchases/fees + interest + VAT −
// payments. GrossPayments is the payment total implied by that identity;
// SignedDiff and AbsoluteDiff expose the raw gap both ways.
type CutoffBalanceResult struct {
	SubtotalBeforeVAT decimal.Decimal
	SubtotalWithVAT   decimal.Decimal
	GrossPayments     decimal.Decimal
	Recomputed        decimal.Decimal
	SignedDiff        decimal.Decimal
	AbsoluteDiff      decimal.Decimal
}

// CutoffBalance recomputes the cut-off statement identity for one account.
func CutoffBalance(in Inputs) CutoffBalanceResult {
	subtotal := in.OpeningBalance.
		Add(in.Movements.PurchasesAndFees).
		Add(in.Movements.InterestCharged)
	withVAT := subtotal.Add(in.Movements.VAT)

	signed := withVAT.Sub(in.ClosingBalance)

	return CutoffBalanceResult{
		SubtotalBeforeVAT: subtotal,
		SubtotalWithVAT:   withVAT,
		GrossPayments:     signed,
		Recomputed:        withVAT.Sub(signed),
		SignedDiff:        signed,
		AbsoluteDiff:      signed.Abs(),
	}
}

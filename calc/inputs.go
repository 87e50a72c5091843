package calc

import (
	"time"

	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"bitbucket.org/mmdatafocus/cardrecon_backend/utils"
	"github.com/shopspring/decimal"
)

// MovementAggregate carries every movement-derived scalar a calculator needs,
// computed once per account so no calculator re-scans the movement list.
//
// Purchases/Interest/Fees/Payments are restricted to the billing window
// [first of cutoff month, cutoff date] and to transactions posted before
// 22:00; the statement-line sums (PurchasesAndFees, InterestCharged, VAT)
// cover the whole cycle, matching how the source system prints them.
type MovementAggregate struct {
	Purchases decimal.Decimal
	Interest  decimal.Decimal
	Fees      decimal.Decimal
	Payments  decimal.Decimal

	PurchasesAndFees decimal.Decimal
	InterestCharged  decimal.Decimal
	VAT              decimal.Decimal

	FirstTxnAt *time.Time
	LastTxnAt  *time.Time
}

// CashFlow is one dated, signed flow of the account's payment series.
type CashFlow struct {
	At     time.Time
	Amount decimal.Decimal
}

// Inputs is the normalized, joined view of a single account that every
// calculator reads from. All numeric fields are zero-defaulted before they
// get here; calculators never see a null.
type Inputs struct {
	AccountId     string
	Product       string
	CreditProfile string

	CreditLimit    decimal.Decimal
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal

	CutoffDate time.Time
	DueDate    time.Time

	ReportedMinimumPayment    decimal.Decimal
	ReportedNoInterestPayment decimal.Decimal
	ReportedPastDueAmount     decimal.Decimal
	ReportedCAT               decimal.Decimal

	HasPromotion        bool
	PromotionType       models.PromotionType
	PromoTotalAmount    decimal.Decimal
	PromoPendingAmount  decimal.Decimal
	PromoTotalInterest  decimal.Decimal
	PromoPartialPayment decimal.Decimal
	PromoInterestRate   decimal.Decimal
	PromoInstallments   int

	Movements MovementAggregate
	Flows     []CashFlow
}

// BuildInputs joins one account with its movements and (optional) promotion
// into the calculator input view. promotion may be nil: accounts without a
// promotion still reconcile, with promotion-derived fields zeroed.
func BuildInputs(account models.Account, movements []models.Movement, promotion *models.Promotion) Inputs {
	in := Inputs{
		AccountId:     account.AccountId,
		Product:       account.Product,
		CreditProfile: account.CreditProfile,

		CreditLimit:    account.CreditLimit,
		OpeningBalance: account.OpeningBalance,
		ClosingBalance: account.ClosingBalance,

		CutoffDate: account.CutoffDate,
		DueDate:    account.DueDate,

		ReportedMinimumPayment:    account.ReportedMinimumPayment,
		ReportedNoInterestPayment: account.ReportedNoInterestPayment,
		ReportedPastDueAmount:     account.ReportedPastDueAmount,
		ReportedCAT:               account.ReportedCAT,

		PromotionType: models.PromotionUnknown,
	}

	if promotion != nil {
		in.HasPromotion = true
		in.PromotionType = promotion.Type
		in.PromoTotalAmount = promotion.TotalAmount
		in.PromoPendingAmount = promotion.PendingAmount
		in.PromoTotalInterest = promotion.TotalInterest
		in.PromoPartialPayment = promotion.PartialPayment
		in.PromoInterestRate = promotion.InterestRate
		in.PromoInstallments = promotion.Installments
	}

	in.Movements = AggregateMovements(movements, account.CutoffDate)
	in.Flows = PaymentFlows(account, movements)

	return in
}

// AggregateMovements folds an account's movement list into the per-code sums
// and date extremes the calculators consume.
func AggregateMovements(movements []models.Movement, cutoff time.Time) MovementAggregate {
	var agg MovementAggregate

	windowStart := utils.FirstOfMonth(cutoff)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location())

	for i := range movements {
		m := &movements[i]

		if agg.FirstTxnAt == nil || m.TransactionAt.Before(*agg.FirstTxnAt) {
			t := m.TransactionAt
			agg.FirstTxnAt = &t
		}
		if agg.LastTxnAt == nil || m.TransactionAt.After(*agg.LastTxnAt) {
			t := m.TransactionAt
			agg.LastTxnAt = &t
		}

		switch m.Code {
		case models.CodePenaltyFee:
			agg.PurchasesAndFees = agg.PurchasesAndFees.Add(m.BilledAmount)
		case models.CodePurchaseInterest:
			agg.InterestCharged = agg.InterestCharged.Add(m.BilledAmount)
		case models.CodeVAT:
			agg.VAT = agg.VAT.Add(m.BilledAmount)
		}

		if !inBillingWindow(m.TransactionAt, windowStart, cutoffDay) {
			continue
		}
		switch m.Code {
		case models.CodePurchase:
			agg.Purchases = agg.Purchases.Add(m.BilledAmount)
		case models.CodeInterest, models.CodePurchaseInterest:
			agg.Interest = agg.Interest.Add(m.BilledAmount)
		case models.CodeFee, models.CodePenaltyFee:
			agg.Fees = agg.Fees.Add(m.BilledAmount)
		case models.CodePayment:
			agg.Payments = agg.Payments.Add(m.BilledAmount)
		}
	}

	return agg
}

// inBillingWindow applies the month-end cut-off boundary: the transaction day
// must fall inside [first of month, cutoff day], and anything posted at or
// after 22:00 is already part of the next cycle.
func inBillingWindow(txn, windowStart, cutoffDay time.Time) bool {
	day := time.Date(txn.Year(), txn.Month(), txn.Day(), 0, 0, 0, 0, txn.Location())
	if day.Before(windowStart) || day.After(cutoffDay) {
		return false
	}
	return txn.Hour() < 22
}

// PaymentFlows builds the dated cash-flow series for the annual cost rate:
// the closing balance as the (negative) initial flow at cutoff, then each
// payment movement as a positive dated inflow.
func PaymentFlows(account models.Account, movements []models.Movement) []CashFlow {
	flows := []CashFlow{{At: account.CutoffDate, Amount: account.ClosingBalance.Abs().Neg()}}
	for i := range movements {
		m := &movements[i]
		if m.Code != models.CodePayment {
			continue
		}
		flows = append(flows, CashFlow{At: m.TransactionAt, Amount: m.BilledAmount.Abs()})
	}
	return flows
}

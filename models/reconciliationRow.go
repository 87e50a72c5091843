package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricComparison is one reported-vs-recomputed block of the wide
// reconciliation table. Tier and Class carry the same value today; both are
// kept as separate outputs for compatibility with downstream consumers.
type MetricComparison struct {
	Reported     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported"`
	Recomputed   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"recomputed"`
	AbsoluteDiff decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"absolute_diff"`
	PercentDiff  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"percent_diff"`

	Grade    DiscrepancyGrade `gorm:"size:30" json:"grade"`
	Severity ImpactTier       `gorm:"size:10" json:"severity"`
	Tier     ImpactTier       `gorm:"size:10" json:"impact_tier"`
	Class    ImpactTier       `gorm:"size:10" json:"impact_class"`

	Dispersion      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"dispersion"`
	DispersionClass ImpactTier      `gorm:"size:10" json:"dispersion_class"`

	// Valid is false when no recomputed figure could be produced at all
	// (CAT non-convergence, degenerate cash flows). The numeric fields are
	// zero in that case and Diagnostic says why.
	Valid      bool   `gorm:"default:1" json:"valid"`
	Diagnostic string `gorm:"size:255" json:"diagnostic,omitempty"`
}

// ReconciliationRow is the denormalized output of one account's
// reconciliation: raw account fields first, derived scalars next, then one
// MetricComparison block per metric in MetricOrder (SC, IO, IP, SCM, PGNI,
// PM, IF, CAT). Rows are assembled once and never mutated afterwards.
type ReconciliationRow struct {
	ID    int    `gorm:"primary_key" json:"id"`
	RunId string `gorm:"size:64;index;not null" json:"run_id"`

	AccountId     string `gorm:"size:64;index;not null" json:"account_id"`
	Product       string `gorm:"size:100" json:"product"`
	CreditProfile string `gorm:"size:100" json:"credit_profile"`

	CreditLimit    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"closing_balance"`

	CutoffDate time.Time  `json:"cutoff_date"`
	DueDate    time.Time  `json:"due_date"`
	FirstTxnAt *time.Time `json:"first_txn_at,omitempty"`
	LastTxnAt  *time.Time `json:"last_txn_at,omitempty"`

	AnnualRate decimal.Decimal `gorm:"type:decimal(10,6);default:0" json:"annual_rate"`
	DailyRate  decimal.Decimal `gorm:"type:decimal(12,8);default:0" json:"daily_rate"`
	CycleDays  int             `gorm:"default:0" json:"cycle_days"`

	PromotionType       PromotionType   `gorm:"size:30" json:"promotion_type"`
	PromoPendingAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"promo_pending_amount"`
	PromoTotalInterest  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"promo_total_interest"`
	PromoPartialPayment decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"promo_partial_payment"`
	PromoInterestRate   decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"promo_interest_rate"`

	// Movement aggregates over the account, by transaction-type code.
	PurchasesAndFees  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchases_and_fees"`
	InterestCharged   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"interest_charged"`
	VAT               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"vat"`
	SubtotalBeforeVAT decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_before_vat"`
	SubtotalWithVAT   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_with_vat"`
	GrossPayments     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_payments"`

	CutoffBalance     MetricComparison `gorm:"embedded;embeddedPrefix:sc_" json:"cutoff_balance"`
	OrdinaryInterest  MetricComparison `gorm:"embedded;embeddedPrefix:io_" json:"ordinary_interest"`
	PromoInterest     MetricComparison `gorm:"embedded;embeddedPrefix:ip_" json:"promo_interest"`
	MonthEndBalance   MetricComparison `gorm:"embedded;embeddedPrefix:scm_" json:"month_end_balance"`
	NoInterestPayment MetricComparison `gorm:"embedded;embeddedPrefix:pgni_" json:"no_interest_payment"`
	MinimumPayment    MetricComparison `gorm:"embedded;embeddedPrefix:pm_" json:"minimum_payment"`
	InterestInFavor   MetricComparison `gorm:"embedded;embeddedPrefix:if_" json:"interest_in_favor"`
	CAT               MetricComparison `gorm:"embedded;embeddedPrefix:cat_" json:"cat"`

	Status     RowStatus `gorm:"size:10;default:'Ok'" json:"status"`
	Diagnostic string    `gorm:"size:500" json:"diagnostic,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// MetricBlock returns the comparison block for a metric code, in a form
// usable by exporters iterating MetricOrder.
func (r *ReconciliationRow) MetricBlock(code MetricCode) *MetricComparison {
	switch code {
	case MetricCutoffBalance:
		return &r.CutoffBalance
	case MetricOrdinaryInterest:
		return &r.OrdinaryInterest
	case MetricPromoInterest:
		return &r.PromoInterest
	case MetricClosingBalance:
		return &r.MonthEndBalance
	case MetricNoInterestPayment:
		return &r.NoInterestPayment
	case MetricMinimumPayment:
		return &r.MinimumPayment
	case MetricInterestInFavor:
		return &r.InterestInFavor
	case MetricCAT:
		return &r.CAT
	default:
		return nil
	}
}

package models

import "strings"

type MovementCode string

const (
	CodePurchase         MovementCode = "COMPRA"
	CodeInterest         MovementCode = "INTERES"
	CodeFee              MovementCode = "COMISION"
	CodePayment          MovementCode = "PAGO"
	CodePenaltyFee       MovementCode = "COMISION_PENALIZACION"
	CodePurchaseInterest MovementCode = "INTERES_COMPRA"
	CodeVAT              MovementCode = "IVA"
	CodeOther            MovementCode = "OTRO"
)

type PromotionType string

const (
	PromotionPayInFull                PromotionType = "Totalero"
	PromotionInstallmentsNoInterest   PromotionType = "MSI"
	PromotionInstallmentsWithInterest PromotionType = "MCI"
	PromotionUnknown                  PromotionType = "Desconocida"
)

// ParsePromotionType resolves the promotion-type taxonomy once at the
// normalization boundary. Source systems are inconsistent about casing and
// language ("Totalero", "msi", "mci", "meses sin intereses"), so matching is
// case-insensitive substring and calculators only ever see the enum.
func ParsePromotionType(label string) PromotionType {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return PromotionUnknown
	case strings.Contains(l, "totalero"):
		return PromotionPayInFull
	case strings.Contains(l, "msi"), strings.Contains(l, "sin intereses"):
		return PromotionInstallmentsNoInterest
	case strings.Contains(l, "mci"), strings.Contains(l, "con intereses"):
		return PromotionInstallmentsWithInterest
	default:
		return PromotionUnknown
	}
}

type DiscrepancyGrade string

const (
	GradeSignificant    DiscrepancyGrade = "Significativa"
	GradeModerate       DiscrepancyGrade = "Moderada"
	GradeNotSignificant DiscrepancyGrade = "No significativa"
)

type ImpactTier string

const (
	TierHigh   ImpactTier = "Alta"
	TierMedium ImpactTier = "Media"
	TierLow    ImpactTier = "Baja"
)

type RowStatus string

const (
	RowStatusOk     RowStatus = "Ok"
	RowStatusFailed RowStatus = "Failed"
)

type MetricCode string

// Metric block codes, in the fixed output column order.
const (
	MetricCutoffBalance     MetricCode = "SC"
	MetricOrdinaryInterest  MetricCode = "IO"
	MetricPromoInterest     MetricCode = "IP"
	MetricClosingBalance    MetricCode = "SCM"
	MetricNoInterestPayment MetricCode = "PGNI"
	MetricMinimumPayment    MetricCode = "PM"
	MetricInterestInFavor   MetricCode = "IF"
	MetricCAT               MetricCode = "CAT"
)

// MetricOrder is the documented column-block order of the reconciliation table.
var MetricOrder = []MetricCode{
	MetricCutoffBalance,
	MetricOrdinaryInterest,
	MetricPromoInterest,
	MetricClosingBalance,
	MetricNoInterestPayment,
	MetricMinimumPayment,
	MetricInterestInFavor,
	MetricCAT,
}

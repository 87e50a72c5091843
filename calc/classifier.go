package calc

import (
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/shopspring/decimal"
)

var (
	gradeSignificant = decimal.NewFromInt(5)
	gradeModerate    = decimal.NewFromInt(4)

	severityUnderHigh   = decimal.NewFromInt(10)
	severityUnderMedium = decimal.NewFromInt(5)
	severityOverHigh    = decimal.NewFromInt(5)
	severityOverMedium  = decimal.RequireFromString("2.5")

	impactHigh   = decimal.NewFromInt(15)
	impactMedium = decimal.NewFromInt(5)

	dispersionHigh   = decimal.NewFromInt(15)
	dispersionMedium = decimal.NewFromInt(5)
)

// Classification is the discrepancy verdict for one metric: how far apart
// reported and recomputed are, how dangerous the direction of the gap is,
// and how much of the reference balance the gap represents.
type Classification struct {
	Grade    models.DiscrepancyGrade
	Severity models.ImpactTier
	Tier     models.ImpactTier
	Class    models.ImpactTier
}

// Classify grades the gap between a reported and a recomputed value against
// a reference balance.
//
// The grade boundary is asymmetric on purpose: below 4% is not significant,
// 5% and above is significant, and the [4,5) band in between is moderate.
// Severity is also asymmetric by direction: an under-reporting system
// (negative percentage) trips High only past 10%, an over-reporting one
// already at 5%.
func Classify(reported, recomputed, referenceBalance decimal.Decimal) Classification {
	var pct decimal.Decimal
	if !recomputed.IsZero() {
		pct = reported.Sub(recomputed).Div(recomputed).Mul(hundred)
	}

	var c Classification

	switch abs := pct.Abs(); {
	case abs.GreaterThanOrEqual(gradeSignificant):
		c.Grade = models.GradeSignificant
	case abs.LessThan(gradeModerate):
		c.Grade = models.GradeNotSignificant
	default:
		c.Grade = models.GradeModerate
	}

	if pct.IsNegative() {
		switch abs := pct.Abs(); {
		case abs.GreaterThan(severityUnderHigh):
			c.Severity = models.TierHigh
		case abs.GreaterThanOrEqual(severityUnderMedium):
			c.Severity = models.TierMedium
		default:
			c.Severity = models.TierLow
		}
	} else {
		switch {
		case pct.GreaterThan(severityOverHigh):
			c.Severity = models.TierHigh
		case pct.GreaterThanOrEqual(severityOverMedium):
			c.Severity = models.TierMedium
		default:
			c.Severity = models.TierLow
		}
	}

	var impactPct decimal.Decimal
	if !referenceBalance.IsZero() {
		impactPct = reported.Sub(recomputed).Abs().Div(referenceBalance.Abs()).Mul(hundred)
	}
	switch {
	case impactPct.GreaterThan(impactHigh):
		c.Tier = models.TierHigh
	case impactPct.GreaterThanOrEqual(impactMedium):
		c.Tier = models.TierMedium
	default:
		c.Tier = models.TierLow
	}
	// tier and class report the same verdict today; downstream consumers
	// read them as separate columns
	c.Class = c.Tier

	return c
}

// Dispersion scores the half-gap between reported and recomputed and
// classifies it relative to their average magnitude.
func Dispersion(reported, recomputed decimal.Decimal) (decimal.Decimal, models.ImpactTier) {
	score := reported.Sub(recomputed).Abs().Div(two)

	avg := reported.Add(recomputed).Div(two)
	var pct decimal.Decimal
	if !avg.IsZero() {
		pct = score.Div(avg.Abs()).Mul(hundred)
	}

	switch {
	case pct.GreaterThanOrEqual(dispersionHigh):
		return score, models.TierHigh
	case pct.GreaterThanOrEqual(dispersionMedium):
		return score, models.TierMedium
	default:
		return score, models.TierLow
	}
}

// PercentDiff is the zero-guarded absolute percentage gap used in the
// per-metric quadruple: zero whenever the recomputed value is zero.
func PercentDiff(reported, recomputed decimal.Decimal) decimal.Decimal {
	if recomputed.IsZero() {
		return decimal.Zero
	}
	return reported.Sub(recomputed).Abs().Div(recomputed.Abs()).Mul(hundred)
}

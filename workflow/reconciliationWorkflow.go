package workflow

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/mmdatafocus/cardrecon_backend/calc"
	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"bitbucket.org/mmdatafocus/cardrecon_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RunSummary is the per-run accounting returned alongside the rows and
// logged at the end of every batch.
type RunSummary struct {
	RunId           string `json:"run_id"`
	Accounts        int    `json:"accounts"`
	Movements       int    `json:"movements"`
	Promotions      int    `json:"promotions"`
	DuplicatePromos int    `json:"duplicate_promotions_dropped"`
	RowsOk          int    `json:"rows_ok"`
	RowsFailed      int    `json:"rows_failed"`
	CATFailures     int    `json:"cat_failures"`
}

// BuildReconciliation joins the three input collections by account id and
// produces one wide reconciliation row per distinct account. The promotion
// join is left-outer and duplicate promotions resolve first-wins. A failure
// inside one account's calculation marks that row Failed with a diagnostic
// and the batch continues. Output is ordered by ascending account id, so
// rerunning over the same inputs yields identical rows.
func BuildReconciliation(ctx context.Context, logger *logrus.Logger, accounts []models.Account, movements []models.Movement, promotions []models.Promotion) ([]models.ReconciliationRow, RunSummary) {
	runId := uuid.New().String()
	summary := RunSummary{
		RunId:      runId,
		Accounts:   len(accounts),
		Movements:  len(movements),
		Promotions: len(promotions),
	}

	movementsByAccount := make(map[string][]models.Movement, len(accounts))
	for _, m := range movements {
		movementsByAccount[m.AccountId] = append(movementsByAccount[m.AccountId], m)
	}

	promoByAccount := make(map[string]models.Promotion, len(promotions))
	for _, p := range promotions {
		if _, seen := promoByAccount[p.AccountId]; seen {
			summary.DuplicatePromos++
			continue
		}
		promoByAccount[p.AccountId] = p
	}

	ordered := make([]models.Account, len(accounts))
	copy(ordered, accounts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AccountId < ordered[j].AccountId
	})

	rows := make([]models.ReconciliationRow, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	for _, account := range ordered {
		if seen[account.AccountId] {
			continue
		}
		seen[account.AccountId] = true

		var promo *models.Promotion
		if p, ok := promoByAccount[account.AccountId]; ok {
			promo = &p
		}

		row := reconcileAccount(logger, runId, account, movementsByAccount[account.AccountId], promo)
		if row.Status == models.RowStatusFailed {
			summary.RowsFailed++
		} else {
			summary.RowsOk++
			if !row.CAT.Valid {
				summary.CATFailures++
			}
		}
		rows = append(rows, row)
	}

	logger.WithFields(logrus.Fields{
		"runId":      runId,
		"accounts":   summary.Accounts,
		"rowsOk":     summary.RowsOk,
		"rowsFailed": summary.RowsFailed,
	}).Info("Reconciliation run completed")

	return rows, summary
}

// ReconcileAccount runs the full metric set for exactly one account id,
// producing the same row shape as the batch. The filter is pushed before
// the join so unrelated movements are never aggregated.
func ReconcileAccount(ctx context.Context, logger *logrus.Logger, accountId string, accounts []models.Account, movements []models.Movement, promotions []models.Promotion) (*models.ReconciliationRow, error) {
	var selected []models.Account
	for _, a := range accounts {
		if a.AccountId == accountId {
			selected = append(selected, a)
			break
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("account %s not found", accountId)
	}

	var ownMovements []models.Movement
	for _, m := range movements {
		if m.AccountId == accountId {
			ownMovements = append(ownMovements, m)
		}
	}
	var ownPromotions []models.Promotion
	for _, p := range promotions {
		if p.AccountId == accountId {
			ownPromotions = append(ownPromotions, p)
		}
	}

	rows, _ := BuildReconciliation(ctx, logger, selected, ownMovements, ownPromotions)
	return &rows[0], nil
}

// reconcileAccount assembles one account's row. Loader errors and panics out
// of the calculators (bad source data reaching arithmetic) both resolve into
// a Failed row so one account can never abort the batch.
func reconcileAccount(logger *logrus.Logger, runId string, account models.Account, movements []models.Movement, promo *models.Promotion) (row models.ReconciliationRow) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("reconcile panic: %v", r)
			config.LogError(logger, "reconciliationWorkflow.go", "reconcileAccount", "Reconciling account "+account.AccountId, account, err)
			row = failedRow(runId, account, err.Error())
		}
	}()

	if account.LoadError != "" {
		return failedRow(runId, account, account.LoadError)
	}

	in := calc.BuildInputs(account, movements, promo)
	cutoff := calc.CutoffBalance(in)

	row = models.ReconciliationRow{
		RunId:         runId,
		AccountId:     account.AccountId,
		Product:       account.Product,
		CreditProfile: account.CreditProfile,

		CreditLimit:    account.CreditLimit,
		OpeningBalance: account.OpeningBalance,
		ClosingBalance: account.ClosingBalance,

		CutoffDate: account.CutoffDate,
		DueDate:    account.DueDate,
		FirstTxnAt: in.Movements.FirstTxnAt,
		LastTxnAt:  in.Movements.LastTxnAt,

		AnnualRate: calc.RateForProfile(account.CreditProfile),
		CycleDays:  calc.CreditDays(account.CutoffDate, account.DueDate),

		PromotionType:       in.PromotionType,
		PromoPendingAmount:  in.PromoPendingAmount,
		PromoTotalInterest:  in.PromoTotalInterest,
		PromoPartialPayment: in.PromoPartialPayment,
		PromoInterestRate:   in.PromoInterestRate,

		PurchasesAndFees:  utils.Round2(in.Movements.PurchasesAndFees),
		InterestCharged:   utils.Round2(in.Movements.InterestCharged),
		VAT:               utils.Round2(in.Movements.VAT),
		SubtotalBeforeVAT: utils.Round2(cutoff.SubtotalBeforeVAT),
		SubtotalWithVAT:   utils.Round2(cutoff.SubtotalWithVAT),
		GrossPayments:     utils.Round2(cutoff.GrossPayments),

		Status: models.RowStatusOk,
	}
	row.DailyRate = calc.DailyRate(row.AnnualRate)

	reference := account.ClosingBalance

	row.CutoffBalance = compare(account.ClosingBalance, cutoff.Recomputed, reference)
	row.OrdinaryInterest = compare(in.Movements.InterestCharged, calc.OrdinaryInterest(in), reference)
	row.PromoInterest = compare(in.PromoTotalInterest, calc.PromoInterest(in), reference)
	row.MonthEndBalance = compare(account.ClosingBalance, calc.ClosingBalance(in), reference)
	row.NoInterestPayment = compare(account.ReportedNoInterestPayment, calc.NoInterestPayment(in), reference)
	row.MinimumPayment = compare(account.ReportedMinimumPayment, calc.MinimumPayment(in), reference)
	row.InterestInFavor = compare(positiveOrZero(account.OpeningBalance), calc.InterestInFavor(in), reference)

	cat := calc.CAT(in.Flows)
	if cat.Valid {
		row.CAT = compare(account.ReportedCAT, cat.Value, reference)
	} else {
		row.CAT = models.MetricComparison{
			Reported:   utils.Round2(account.ReportedCAT),
			Grade:      models.GradeNotSignificant,
			Severity:   models.TierLow,
			Tier:       models.TierLow,
			Class:      models.TierLow,
			Diagnostic: cat.Diagnostic,
		}
		logger.WithFields(logrus.Fields{
			"accountId": account.AccountId,
			"runId":     runId,
		}).Warn("CAT estimation failed: " + cat.Diagnostic)
	}

	return row
}

// compare fills one metric block: the quadruple rounded to two decimals at
// the output boundary, the discrepancy classification and the dispersion
// score.
func compare(reported, recomputed, reference decimal.Decimal) models.MetricComparison {
	c := calc.Classify(reported, recomputed, reference)
	dispersion, dispersionClass := calc.Dispersion(reported, recomputed)

	return models.MetricComparison{
		Reported:     utils.Round2(reported),
		Recomputed:   utils.Round2(recomputed),
		AbsoluteDiff: utils.Round2(reported.Sub(recomputed).Abs()),
		PercentDiff:  utils.Round2(calc.PercentDiff(reported, recomputed)),

		Grade:    c.Grade,
		Severity: c.Severity,
		Tier:     c.Tier,
		Class:    c.Class,

		Dispersion:      utils.Round2(dispersion),
		DispersionClass: dispersionClass,

		Valid: true,
	}
}

func positiveOrZero(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.Zero
}

// failedRow carries the raw account fields so a broken account is still
// visible in the output, with every metric block zeroed and marked invalid.
func failedRow(runId string, account models.Account, diagnostic string) models.ReconciliationRow {
	row := models.ReconciliationRow{
		RunId:          runId,
		AccountId:      account.AccountId,
		Product:        account.Product,
		CreditProfile:  account.CreditProfile,
		CreditLimit:    account.CreditLimit,
		OpeningBalance: account.OpeningBalance,
		ClosingBalance: account.ClosingBalance,
		CutoffDate:     account.CutoffDate,
		DueDate:        account.DueDate,
		PromotionType:  models.PromotionUnknown,
		Status:         models.RowStatusFailed,
		Diagnostic:     diagnostic,
	}
	for _, code := range models.MetricOrder {
		block := row.MetricBlock(code)
		block.Grade = models.GradeNotSignificant
		block.Severity = models.TierLow
		block.Tier = models.TierLow
		block.Class = models.TierLow
		block.DispersionClass = models.TierLow
		block.Diagnostic = diagnostic
	}
	return row
}

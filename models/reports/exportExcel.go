package reports

import (
	"context"
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// accountHeaders are the raw and derived per-account columns, ahead of the
// metric blocks. Order is part of the report contract.
var accountHeaders = []string{
	"AccountId",
	"Product",
	"CreditProfile",
	"CreditLimit",
	"OpeningBalance",
	"ClosingBalance",
	"CutoffDate",
	"DueDate",
	"AnnualRate",
	"DailyRate",
	"CycleDays",
	"PromotionType",
	"PromoPendingAmount",
	"PromoTotalInterest",
	"PromoPartialPayment",
	"PromoInterestRate",
	"PurchasesAndFees",
	"InterestCharged",
	"VAT",
	"SubtotalBeforeVAT",
	"SubtotalWithVAT",
	"GrossPayments",
	"Status",
	"Diagnostic",
}

// metricHeaders repeat once per metric code, prefixed with it.
var metricHeaders = []string{
	"Reported",
	"Recomputed",
	"AbsoluteDiff",
	"PercentDiff",
	"Grade",
	"Severity",
	"ImpactTier",
	"ImpactClass",
	"Dispersion",
	"DispersionClass",
}

// ReconciliationHeaders returns the full fixed column order of the report.
func ReconciliationHeaders() []string {
	headers := make([]string, 0, len(accountHeaders)+len(models.MetricOrder)*len(metricHeaders))
	headers = append(headers, accountHeaders...)
	for _, code := range models.MetricOrder {
		for _, h := range metricHeaders {
			headers = append(headers, string(code)+"_"+h)
		}
	}
	return headers
}

func rowValues(r *models.ReconciliationRow) []interface{} {
	values := []interface{}{
		r.AccountId,
		r.Product,
		r.CreditProfile,
		r.CreditLimit.String(),
		r.OpeningBalance.String(),
		r.ClosingBalance.String(),
		r.CutoffDate.Format("2006-01-02"),
		r.DueDate.Format("2006-01-02"),
		r.AnnualRate.String(),
		r.DailyRate.String(),
		r.CycleDays,
		string(r.PromotionType),
		r.PromoPendingAmount.String(),
		r.PromoTotalInterest.String(),
		r.PromoPartialPayment.String(),
		r.PromoInterestRate.String(),
		r.PurchasesAndFees.String(),
		r.InterestCharged.String(),
		r.VAT.String(),
		r.SubtotalBeforeVAT.String(),
		r.SubtotalWithVAT.String(),
		r.GrossPayments.String(),
		string(r.Status),
		r.Diagnostic,
	}
	for _, code := range models.MetricOrder {
		block := r.MetricBlock(code)
		recomputed := block.Recomputed.String()
		if !block.Valid {
			recomputed = "N/A"
		}
		values = append(values,
			block.Reported.String(),
			recomputed,
			block.AbsoluteDiff.String(),
			block.PercentDiff.String(),
			string(block.Grade),
			string(block.Severity),
			string(block.Tier),
			string(block.Class),
			block.Dispersion.String(),
			string(block.DispersionClass),
		)
	}
	return values
}

// WriteReconciliationXlsx renders a run's rows as a workbook at path.
func WriteReconciliationXlsx(rows []models.ReconciliationRow, path string) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	return f.SaveAs(path)
}

// ExportReconciliationXlsx streams a run's rows as an xlsx attachment.
func ExportReconciliationXlsx(ctx context.Context, w http.ResponseWriter, runId string, rows []models.ReconciliationRow) error {
	f, err := buildWorkbook(rows)
	if err != nil {
		return err
	}

	filename := "reconciliation_" + sanitizeFilename(runId) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	return f.Write(w)
}

func buildWorkbook(rows []models.ReconciliationRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	for col, header := range ReconciliationHeaders() {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cellName, header); err != nil {
			return nil, err
		}
	}

	for i := range rows {
		for col, value := range rowValues(&rows[i]) {
			cellName, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cellName, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

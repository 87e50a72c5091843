package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"bitbucket.org/mmdatafocus/cardrecon_backend/models/reports"
	"bitbucket.org/mmdatafocus/cardrecon_backend/workflow"
)

func main() {
	accountID := flag.String("account-id", "", "Optional: reconcile a single account id")
	xlsxPath := flag.String("xlsx", "", "Optional: load input from an xlsx workbook instead of the database")
	outPath := flag.String("out", "", "Optional: write the reconciliation table to this xlsx path")
	persist := flag.Bool("persist", false, "Persist the run's rows to the database")
	flag.Parse()

	logger := config.GetLogger()
	ctx := context.Background()

	var input *models.LedgerInput
	var err error
	switch {
	case strings.TrimSpace(*xlsxPath) != "":
		input, err = models.LoadLedgerXlsx(*xlsxPath)
	case strings.TrimSpace(*accountID) != "":
		config.ConnectDatabaseWithRetry()
		input, err = models.GetLedgerInputForAccount(ctx, strings.TrimSpace(*accountID))
	default:
		config.ConnectDatabaseWithRetry()
		input, err = models.GetLedgerInput(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading ledger input: %v\n", err)
		os.Exit(1)
	}

	for _, rowErr := range input.RowErrors {
		logger.Warnf("%s line %d (account %s): %s", rowErr.Sheet, rowErr.Line, rowErr.AccountId, rowErr.Message)
	}

	accounts := input.Accounts
	movements := input.Movements
	promotions := input.Promotions
	if id := strings.TrimSpace(*accountID); id != "" && strings.TrimSpace(*xlsxPath) != "" {
		row, err := workflow.ReconcileAccount(ctx, logger, id, accounts, movements, promotions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reconciling account %s: %v\n", id, err)
			os.Exit(1)
		}
		printRows([]models.ReconciliationRow{*row})
		return
	}

	rows, summary := workflow.BuildReconciliation(ctx, logger, accounts, movements, promotions)
	printRows(rows)
	fmt.Printf("run %s: %d ok, %d failed, %d duplicate promotions dropped\n",
		summary.RunId, summary.RowsOk, summary.RowsFailed, summary.DuplicatePromos)

	if strings.TrimSpace(*outPath) != "" {
		if err := reports.WriteReconciliationXlsx(rows, strings.TrimSpace(*outPath)); err != nil {
			fmt.Fprintf(os.Stderr, "writing report: %v\n", err)
			os.Exit(1)
		}
	}
	if *persist {
		if config.GetDB() == nil {
			config.ConnectDatabaseWithRetry()
		}
		if err := models.SaveReconciliationRows(ctx, rows); err != nil {
			fmt.Fprintf(os.Stderr, "persisting rows: %v\n", err)
			os.Exit(1)
		}
	}
}

func printRows(rows []models.ReconciliationRow) {
	for i := range rows {
		r := &rows[i]
		fmt.Printf("%s [%s] closing=%s recomputed=%s grade=%s\n",
			r.AccountId, r.Status, r.ClosingBalance.String(),
			r.MonthEndBalance.Recomputed.String(), r.MonthEndBalance.Grade)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
)

func main() {
	xlsxPath := flag.String("xlsx", "", "Workbook with Cuentas, Movimientos and Promociones sheets")
	accountsCsv := flag.String("accounts-csv", "", "Accounts csv (alternative to --xlsx)")
	movementsCsv := flag.String("movements-csv", "", "Movements csv")
	promotionsCsv := flag.String("promotions-csv", "", "Promotions csv")
	flag.Parse()

	useXlsx := strings.TrimSpace(*xlsxPath) != ""
	useCsv := strings.TrimSpace(*accountsCsv) != "" || strings.TrimSpace(*movementsCsv) != "" || strings.TrimSpace(*promotionsCsv) != ""
	if useXlsx == useCsv {
		fmt.Fprintln(os.Stderr, "exactly one of --xlsx or the csv flags is required")
		os.Exit(1)
	}

	var input *models.LedgerInput
	var err error
	if useXlsx {
		input, err = models.LoadLedgerXlsx(strings.TrimSpace(*xlsxPath))
	} else {
		input, err = models.LoadLedgerCsv(
			strings.TrimSpace(*accountsCsv),
			strings.TrimSpace(*movementsCsv),
			strings.TrimSpace(*promotionsCsv),
		)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading input: %v\n", err)
		os.Exit(1)
	}

	logger := config.GetLogger()
	for _, rowErr := range input.RowErrors {
		logger.Warnf("%s line %d (account %s): %s", rowErr.Sheet, rowErr.Line, rowErr.AccountId, rowErr.Message)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	models.MigrateTable()

	if err := models.SaveLedgerInput(context.Background(), input); err != nil {
		fmt.Fprintf(os.Stderr, "saving input: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("imported %d accounts, %d movements, %d promotions (%d row errors, %d duplicate promotions dropped)\n",
		len(input.Accounts), len(input.Movements), len(input.Promotions), len(input.RowErrors), input.DuplicatePromotions)
}

package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
	"bitbucket.org/mmdatafocus/cardrecon_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

// LedgerInput is the normalized result of one import: the three record sets
// the reconciliation engine joins, plus the rows that could not be parsed.
type LedgerInput struct {
	Accounts   []Account
	Movements  []Movement
	Promotions []Promotion
	RowErrors  []RowError

	// DuplicatePromotions counts promotion rows dropped by the first-wins
	// policy. Dropping them here keeps the account_id unique index honest
	// when the snapshot is persisted.
	DuplicatePromotions int
}

// RowError pins an unparseable source row to its sheet and line so a bad
// date fails only the affected account, never the whole import.
type RowError struct {
	Sheet     string `json:"sheet"`
	Line      int    `json:"line"`
	AccountId string `json:"account_id"`
	Message   string `json:"message"`
}

// Account sheets come out of the source system with Spanish upper-case
// headers. Each alias below is already lower-cased by NormalizeHeader; the
// map value is the canonical key the loaders index by.
var headerAliases = map[string]string{
	"id":                 "id",
	"cuenta":             "id",
	"account_id":         "id",
	"producto":           "producto",
	"product":            "producto",
	"perfil_interes":     "perfil_interes",
	"perfil":             "perfil_interes",
	"credit_profile":     "perfil_interes",
	"limite_credito":     "limite_credito",
	"credit_limit":       "limite_credito",
	"saldo_inicial":      "saldo_inicial",
	"opening_balance":    "saldo_inicial",
	"saldo_cierre":       "saldo_cierre",
	"closing_balance":    "saldo_cierre",
	"fecha_corte":        "fecha_corte",
	"cutoff_date":        "fecha_corte",
	"fecha_limite":       "fecha_limite",
	"due_date":           "fecha_limite",
	"pago_minimo":        "pago_minimo",
	"minimum_payment":    "pago_minimo",
	"pago_nogen_int":     "pago_nogen_int",
	"pago_sin_intereses": "pago_nogen_int",
	"monto_vencido":      "monto_vencido",
	"past_due_amount":    "monto_vencido",
	"estatus":            "estatus",
	"status":             "estatus",
	"cat":                "cat",

	"fecha_transaccion": "fecha_transaccion",
	"transaction_date":  "fecha_transaccion",
	"descripcion":       "descripcion",
	"description":       "descripcion",
	"monto_facturacion": "monto_facturacion",
	"billed_amount":     "monto_facturacion",

	"tipo_promo":      "tipo_promo",
	"promotion_type":  "tipo_promo",
	"monto_original":  "monto_original",
	"monto_total":     "monto_total",
	"monto_pendiente": "monto_pendiente",
	"interes_total":   "interes_total",
	"parcialidad":     "parcialidad",
	"tasa_interes":    "tasa_interes",
	"interest_rate":   "tasa_interes",
	"plazo":           "plazo",
	"installments":    "plazo",
}

var importValidator = validator.New()

// columnIndex resolves a header row into canonical-key positions. Unknown
// columns are ignored, not rejected: source exports carry extra columns the
// engine never reads.
func columnIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		canonical, ok := headerAliases[utils.NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := index[canonical]; dup {
			continue
		}
		index[canonical] = i
	}
	return index
}

func cell(row []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// LoadLedgerXlsx reads the three record sets from one workbook with
// Cuentas, Movimientos and Promociones sheets.
func LoadLedgerXlsx(path string) (*LedgerInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook: %v", err)
	}
	defer f.Close()

	input := &LedgerInput{}

	accountRows, err := f.GetRows("Cuentas")
	if err != nil {
		return nil, fmt.Errorf("unable to read Cuentas sheet: %v", err)
	}
	input.Accounts = parseAccounts(accountRows, "Cuentas", input)

	movementRows, err := f.GetRows("Movimientos")
	if err != nil {
		return nil, fmt.Errorf("unable to read Movimientos sheet: %v", err)
	}
	input.Movements = parseMovements(movementRows, "Movimientos", input)

	promoRows, err := f.GetRows("Promociones")
	if err != nil {
		return nil, fmt.Errorf("unable to read Promociones sheet: %v", err)
	}
	input.Promotions = parsePromotions(promoRows, "Promociones", input)

	config.GetLogger().WithField("path", path).Infof(
		"Loaded %d accounts, %d movements, %d promotions (%d row errors, %d duplicate promotions dropped)",
		len(input.Accounts), len(input.Movements), len(input.Promotions), len(input.RowErrors), input.DuplicatePromotions)
	return input, nil
}

// LoadLedgerCsv reads one record set per csv file; empty paths skip that set.
func LoadLedgerCsv(accountsPath, movementsPath, promotionsPath string) (*LedgerInput, error) {
	input := &LedgerInput{}

	if accountsPath != "" {
		rows, err := readCsv(accountsPath)
		if err != nil {
			return nil, err
		}
		input.Accounts = parseAccounts(rows, accountsPath, input)
	}
	if movementsPath != "" {
		rows, err := readCsv(movementsPath)
		if err != nil {
			return nil, err
		}
		input.Movements = parseMovements(rows, movementsPath, input)
	}
	if promotionsPath != "" {
		rows, err := readCsv(promotionsPath)
		if err != nil {
			return nil, err
		}
		input.Promotions = parsePromotions(rows, promotionsPath, input)
	}

	return input, nil
}

func readCsv(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %v", path, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseAccounts(rows [][]string, sheet string, input *LedgerInput) []Account {
	if len(rows) < 2 {
		return nil
	}
	index := columnIndex(rows[0])

	accounts := make([]Account, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		accountId := cell(row, index, "id")

		var loadErr string
		cutoff, err := utils.ParseLedgerDate(cell(row, index, "fecha_corte"))
		if err != nil {
			loadErr = "cutoff date: " + err.Error()
		}
		due, err := utils.ParseLedgerDate(cell(row, index, "fecha_limite"))
		if err != nil && loadErr == "" {
			loadErr = "due date: " + err.Error()
		}

		account := Account{
			AccountId:                 accountId,
			Product:                   cell(row, index, "producto"),
			CreditProfile:             cell(row, index, "perfil_interes"),
			CreditLimit:               utils.ParseDecimalOrZero(cell(row, index, "limite_credito")),
			OpeningBalance:            utils.ParseDecimalOrZero(cell(row, index, "saldo_inicial")),
			ClosingBalance:            utils.ParseDecimalOrZero(cell(row, index, "saldo_cierre")),
			CutoffDate:                cutoff,
			DueDate:                   due,
			ReportedMinimumPayment:    utils.ParseDecimalOrZero(cell(row, index, "pago_minimo")),
			ReportedNoInterestPayment: utils.ParseDecimalOrZero(cell(row, index, "pago_nogen_int")),
			ReportedPastDueAmount:     utils.ParseDecimalOrZero(cell(row, index, "monto_vencido")),
			ReportedCAT:               utils.ParseDecimalOrZero(cell(row, index, "cat")),
			ReportedStatus:            cell(row, index, "estatus"),
			LoadError:                 loadErr,
		}
		if loadErr == "" {
			if err := importValidator.Struct(account); err != nil {
				msgs := utils.ProcessValidationErrors(err)
				account.LoadError = fmt.Sprintf("validation: %v", msgs)
			}
		}
		// A broken row still travels to the assembler, which fails it as its
		// own reconciliation row. Rows with no account id at all cannot be
		// attributed and only leave a RowError behind.
		if account.LoadError != "" {
			input.RowErrors = append(input.RowErrors, RowError{sheet, line, accountId, account.LoadError})
			if accountId == "" {
				continue
			}
		}
		accounts = append(accounts, account)
	}
	return accounts
}

func parseMovements(rows [][]string, sheet string, input *LedgerInput) []Movement {
	if len(rows) < 2 {
		return nil
	}
	index := columnIndex(rows[0])

	movements := make([]Movement, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		accountId := cell(row, index, "id")

		txnAt, err := utils.ParseLedgerDate(cell(row, index, "fecha_transaccion"))
		if err != nil {
			input.RowErrors = append(input.RowErrors, RowError{sheet, line, accountId, "transaction date: " + err.Error()})
			continue
		}

		description := cell(row, index, "descripcion")
		movements = append(movements, Movement{
			AccountId:     accountId,
			TransactionAt: txnAt,
			Description:   description,
			BilledAmount:  utils.ParseDecimalOrZero(cell(row, index, "monto_facturacion")),
			Code:          InferMovementCode(description),
		})
	}
	return movements
}

func parsePromotions(rows [][]string, sheet string, input *LedgerInput) []Promotion {
	if len(rows) < 2 {
		return nil
	}
	index := columnIndex(rows[0])

	promotions := make([]Promotion, 0, len(rows)-1)
	seen := make(map[string]bool, len(rows)-1)
	for _, row := range rows[1:] {
		accountId := cell(row, index, "id")

		// First-wins: a second promotion for the same account is valid
		// source data, dropped silently.
		if seen[accountId] {
			input.DuplicatePromotions++
			continue
		}
		seen[accountId] = true

		installments := 0
		if raw := cell(row, index, "plazo"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				installments = n
			}
		}

		promotions = append(promotions, Promotion{
			AccountId:      accountId,
			Type:           ParsePromotionType(cell(row, index, "tipo_promo")),
			OriginalAmount: utils.ParseDecimalOrZero(cell(row, index, "monto_original")),
			TotalAmount:    utils.ParseDecimalOrZero(cell(row, index, "monto_total")),
			PendingAmount:  utils.ParseDecimalOrZero(cell(row, index, "monto_pendiente")),
			TotalInterest:  utils.ParseDecimalOrZero(cell(row, index, "interes_total")),
			PartialPayment: utils.ParseDecimalOrZero(cell(row, index, "parcialidad")),
			InterestRate:   utils.ParseDecimalOrZero(cell(row, index, "tasa_interes")),
			Installments:   installments,
		})
	}
	return promotions
}

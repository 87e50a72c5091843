package models

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadLedgerCsv_HeaderNormalization(t *testing.T) {
	accounts := writeTemp(t, "cuentas.csv",
		"ID,Producto,PERFIL_INTERES,Limite_Credito,SALDO_INICIAL,SALDO_CIERRE,FECHA_CORTE,FECHA_LIMITE,PAGO_MINIMO,PAGO_NOGEN_INT,MONTO_VENCIDO,ESTATUS,CAT\n"+
			"7,Oro,Visa Oro,\"50,000\",-1000,-1200,2024-10-31,2024-11-20,-400,-1150,0,ACTIVA,45.5\n")

	input, err := LoadLedgerCsv(accounts, "", "")
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Accounts) != 1 {
		t.Fatalf("expected 1 account, got %d (%v)", len(input.Accounts), input.RowErrors)
	}

	a := input.Accounts[0]
	if a.AccountId != "7" {
		t.Fatalf("account id expected 7, got %q", a.AccountId)
	}
	if a.CreditProfile != "Visa Oro" {
		t.Fatalf("credit profile expected Visa Oro, got %q", a.CreditProfile)
	}
	if a.CreditLimit.String() != "50000" {
		t.Fatalf("thousand separator must be stripped, got %s", a.CreditLimit.String())
	}
	if a.CutoffDate.Format("2006-01-02") != "2024-10-31" {
		t.Fatalf("cutoff date mismatch: %s", a.CutoffDate)
	}
	if a.ReportedCAT.String() != "45.5" {
		t.Fatalf("cat expected 45.5, got %s", a.ReportedCAT.String())
	}
}

func TestLoadLedgerCsv_BlankNumericDefaultsToZero(t *testing.T) {
	accounts := writeTemp(t, "cuentas.csv",
		"id,saldo_inicial,saldo_cierre,fecha_corte,fecha_limite,pago_minimo\n"+
			"9,,-1200,2024-10-31,2024-11-20,\n")

	input, err := LoadLedgerCsv(accounts, "", "")
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Accounts) != 1 {
		t.Fatalf("expected 1 account, got %d (%v)", len(input.Accounts), input.RowErrors)
	}
	a := input.Accounts[0]
	if !a.OpeningBalance.IsZero() || !a.ReportedMinimumPayment.IsZero() {
		t.Fatalf("blank numeric cells must default to zero, got %s / %s",
			a.OpeningBalance.String(), a.ReportedMinimumPayment.String())
	}
}

func TestLoadLedgerCsv_BadDateFailsOnlyThatRow(t *testing.T) {
	accounts := writeTemp(t, "cuentas.csv",
		"id,saldo_cierre,fecha_corte,fecha_limite\n"+
			"1,-1200,2024-10-31,2024-11-20\n"+
			"2,-900,not-a-date,2024-11-20\n"+
			"3,-700,2024-10-31,2024-11-20\n")

	input, err := LoadLedgerCsv(accounts, "", "")
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Accounts) != 3 {
		t.Fatalf("the broken row must still surface as an account, got %d", len(input.Accounts))
	}
	broken := input.Accounts[1]
	if broken.AccountId != "2" || broken.LoadError == "" {
		t.Fatalf("account 2 must carry its load error, got %+v", broken)
	}
	if input.Accounts[0].LoadError != "" || input.Accounts[2].LoadError != "" {
		t.Fatalf("good rows must stay clean: %q / %q",
			input.Accounts[0].LoadError, input.Accounts[2].LoadError)
	}
	if len(input.RowErrors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(input.RowErrors))
	}
	re := input.RowErrors[0]
	if re.AccountId != "2" || re.Line != 3 {
		t.Fatalf("row error must pin account 2 at line 3, got %+v", re)
	}
}

func TestLoadLedgerCsv_Movements(t *testing.T) {
	movements := writeTemp(t, "movimientos.csv",
		"ID,FECHA_TRANSACCION,DESCRIPCION,MONTO_FACTURACION\n"+
			"1,2024-10-05 21:55:00,COMPRA GASOLINERA,350.75\n"+
			"1,2024-10-15 12:00:00,PAGO EN LINEA,-500\n")

	input, err := LoadLedgerCsv("", movements, "")
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(input.Movements))
	}
	if input.Movements[0].Code != CodePurchase {
		t.Fatalf("code must be resolved at load, got %q", input.Movements[0].Code)
	}
	if input.Movements[1].Code != CodePayment {
		t.Fatalf("payment code expected, got %q", input.Movements[1].Code)
	}
	if input.Movements[0].TransactionAt.Hour() != 21 {
		t.Fatalf("transaction hour must survive parsing, got %d", input.Movements[0].TransactionAt.Hour())
	}
}

func TestLoadLedgerCsv_Promotions(t *testing.T) {
	promotions := writeTemp(t, "promos.csv",
		"ID,TIPO_PROMO,MONTO_TOTAL,MONTO_PENDIENTE,INTERES_TOTAL,PARCIALIDAD,TASA_INTERES,PLAZO\n"+
			"1,Totalero,0,0,0,0,0,0\n"+
			"2,Meses sin Intereses,1200,-800,50,100,24,12\n"+
			"3,mci,600,-400,30,0,36,6\n"+
			"4,promo especial,0,0,0,0,0,0\n")

	input, err := LoadLedgerCsv("", "", promotions)
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Promotions) != 4 {
		t.Fatalf("expected 4 promotions, got %d", len(input.Promotions))
	}
	expected := []PromotionType{
		PromotionPayInFull,
		PromotionInstallmentsNoInterest,
		PromotionInstallmentsWithInterest,
		PromotionUnknown,
	}
	for i, p := range input.Promotions {
		if p.Type != expected[i] {
			t.Fatalf("promotion %d: expected %q, got %q", i, expected[i], p.Type)
		}
	}
	if input.Promotions[1].Installments != 12 {
		t.Fatalf("installments expected 12, got %d", input.Promotions[1].Installments)
	}
}

func TestLoadLedgerCsv_DuplicatePromotionFirstWins(t *testing.T) {
	promotions := writeTemp(t, "promos.csv",
		"ID,TIPO_PROMO,MONTO_PENDIENTE,TASA_INTERES\n"+
			"7,MSI,-500,24\n"+
			"7,MSI,-900,24\n"+
			"8,Totalero,0,0\n")

	input, err := LoadLedgerCsv("", "", promotions)
	if err != nil {
		t.Fatalf("LoadLedgerCsv: %v", err)
	}
	if len(input.Promotions) != 2 {
		t.Fatalf("duplicate must be dropped at load, got %d promotions", len(input.Promotions))
	}
	if input.Promotions[0].PendingAmount.String() != "-500" {
		t.Fatalf("first promotion row must win, got pending %s", input.Promotions[0].PendingAmount.String())
	}
	if input.DuplicatePromotions != 1 {
		t.Fatalf("expected 1 dropped duplicate, got %d", input.DuplicatePromotions)
	}
}

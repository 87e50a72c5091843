package workflow

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testAccount(id string) models.Account {
	return models.Account{
		AccountId:      id,
		Product:        "Tarjeta Clásica",
		CreditProfile:  "Visa Oro",
		CreditLimit:    dec("50000"),
		OpeningBalance: dec("-1000"),
		ClosingBalance: dec("-1200"),
		CutoffDate:     time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildReconciliation_OneRowPerAccount(t *testing.T) {
	accounts := []models.Account{testAccount("9"), testAccount("7"), testAccount("7")}
	rows, summary := BuildReconciliation(context.Background(), testLogger(), accounts, nil, nil)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 2 distinct accounts, got %d", len(rows))
	}
	if rows[0].AccountId != "7" || rows[1].AccountId != "9" {
		t.Fatalf("rows must be ordered by ascending account id, got %s, %s", rows[0].AccountId, rows[1].AccountId)
	}
	if summary.RowsOk != 2 || summary.RowsFailed != 0 {
		t.Fatalf("summary mismatch: %+v", summary)
	}
}

func TestBuildReconciliation_DuplicatePromotionFirstWins(t *testing.T) {
	accounts := []models.Account{testAccount("7")}
	promotions := []models.Promotion{
		{AccountId: "7", Type: models.PromotionInstallmentsNoInterest, PendingAmount: dec("-500"), InterestRate: dec("24")},
		{AccountId: "7", Type: models.PromotionInstallmentsNoInterest, PendingAmount: dec("-900"), InterestRate: dec("24")},
	}

	rows, summary := BuildReconciliation(context.Background(), testLogger(), accounts, nil, promotions)

	if rows[0].PromoPendingAmount.String() != "-500" {
		t.Fatalf("first promotion row must win, got pending %s", rows[0].PromoPendingAmount.String())
	}
	if summary.DuplicatePromos != 1 {
		t.Fatalf("expected 1 dropped duplicate, got %d", summary.DuplicatePromos)
	}
}

func TestBuildReconciliation_LeftOuterPromotionJoin(t *testing.T) {
	accounts := []models.Account{testAccount("1"), testAccount("2")}
	promotions := []models.Promotion{
		{AccountId: "2", Type: models.PromotionPayInFull, PendingAmount: dec("-300")},
	}

	rows, _ := BuildReconciliation(context.Background(), testLogger(), accounts, nil, promotions)

	if rows[0].PromotionType != models.PromotionUnknown {
		t.Fatalf("account without promotion must carry the unknown type, got %q", rows[0].PromotionType)
	}
	if !rows[0].PromoPendingAmount.IsZero() {
		t.Fatalf("account without promotion must zero promo fields, got %s", rows[0].PromoPendingAmount.String())
	}
	if rows[1].PromotionType != models.PromotionPayInFull {
		t.Fatalf("account with promotion lost it: %q", rows[1].PromotionType)
	}
	if rows[0].Status != models.RowStatusOk {
		t.Fatalf("missing promotion is a valid state, got status %q", rows[0].Status)
	}
}

func TestBuildReconciliation_Idempotent(t *testing.T) {
	accounts := []models.Account{testAccount("3"), testAccount("1"), testAccount("2")}
	movements := []models.Movement{
		{AccountId: "1", TransactionAt: time.Date(2024, 10, 5, 10, 0, 0, 0, time.UTC), Code: models.CodePurchase, BilledAmount: dec("250")},
		{AccountId: "1", TransactionAt: time.Date(2024, 10, 15, 10, 0, 0, 0, time.UTC), Code: models.CodePayment, BilledAmount: dec("-600")},
		{AccountId: "2", TransactionAt: time.Date(2024, 10, 9, 10, 0, 0, 0, time.UTC), Code: models.CodePurchaseInterest, BilledAmount: dec("40")},
	}
	promotions := []models.Promotion{
		{AccountId: "2", Type: models.PromotionInstallmentsWithInterest, TotalAmount: dec("1200"), Installments: 12, InterestRate: dec("36")},
	}

	first, _ := BuildReconciliation(context.Background(), testLogger(), accounts, movements, promotions)
	second, _ := BuildReconciliation(context.Background(), testLogger(), accounts, movements, promotions)

	// run ids differ per run; everything else must be byte-identical
	for i := range first {
		first[i].RunId = ""
		second[i].RunId = ""
	}
	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first run: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second run: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("reruns over identical inputs must match:\n%s\n%s", a, b)
	}
}

func TestReconcileAccount_SingleAccountParity(t *testing.T) {
	accounts := []models.Account{testAccount("1"), testAccount("2")}
	movements := []models.Movement{
		{AccountId: "1", TransactionAt: time.Date(2024, 10, 5, 10, 0, 0, 0, time.UTC), Code: models.CodePurchase, BilledAmount: dec("250")},
		{AccountId: "2", TransactionAt: time.Date(2024, 10, 6, 10, 0, 0, 0, time.UTC), Code: models.CodePurchase, BilledAmount: dec("999")},
	}

	batch, _ := BuildReconciliation(context.Background(), testLogger(), accounts, movements, nil)
	single, err := ReconcileAccount(context.Background(), testLogger(), "1", accounts, movements, nil)
	if err != nil {
		t.Fatalf("ReconcileAccount: %v", err)
	}

	batch[0].RunId = ""
	single.RunId = ""
	a, _ := json.Marshal(batch[0])
	b, _ := json.Marshal(*single)
	if string(a) != string(b) {
		t.Fatalf("single-account mode must match the batch row:\n%s\n%s", a, b)
	}
}

func TestReconcileAccount_Unknown(t *testing.T) {
	_, err := ReconcileAccount(context.Background(), testLogger(), "404", []models.Account{testAccount("1")}, nil, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown account id")
	}
}

func TestBuildReconciliation_LoaderErrorIsolatesToRow(t *testing.T) {
	broken := models.Account{
		AccountId:      "2",
		ClosingBalance: dec("-900"),
		LoadError:      `cutoff date: unparseable date "not-a-date"`,
	}
	accounts := []models.Account{testAccount("1"), broken}

	rows, summary := BuildReconciliation(context.Background(), testLogger(), accounts, nil, nil)

	if len(rows) != 2 {
		t.Fatalf("every account id must emit a row, got %d", len(rows))
	}
	if rows[0].Status != models.RowStatusOk {
		t.Fatalf("clean account must still reconcile, got %q", rows[0].Status)
	}
	failed := rows[1]
	if failed.AccountId != "2" || failed.Status != models.RowStatusFailed {
		t.Fatalf("broken account must fail as its own row, got %s %q", failed.AccountId, failed.Status)
	}
	if failed.Diagnostic != broken.LoadError {
		t.Fatalf("diagnostic must carry the load error, got %q", failed.Diagnostic)
	}
	if failed.ClosingBalance.String() != "-900" {
		t.Fatalf("raw account fields must survive on the failed row, got %s", failed.ClosingBalance.String())
	}
	if summary.RowsOk != 1 || summary.RowsFailed != 1 {
		t.Fatalf("summary mismatch: %+v", summary)
	}
}

func TestBuildReconciliation_MatchingValuesNotSignificant(t *testing.T) {
	account := testAccount("1")
	// reported closing equals the month-end recomputation: opening -1000,
	// purchases 200, no payments
	account.ClosingBalance = dec("-800")
	movements := []models.Movement{
		{AccountId: "1", TransactionAt: time.Date(2024, 10, 5, 10, 0, 0, 0, time.UTC), Code: models.CodePurchase, BilledAmount: dec("200")},
	}

	rows, _ := BuildReconciliation(context.Background(), testLogger(), []models.Account{account}, movements, nil)

	block := rows[0].MonthEndBalance
	if block.Grade != models.GradeNotSignificant {
		t.Fatalf("matching values must grade not significant, got %q", block.Grade)
	}
	if !block.AbsoluteDiff.IsZero() || !block.PercentDiff.IsZero() {
		t.Fatalf("matching values must zero both differences, got %s / %s",
			block.AbsoluteDiff.String(), block.PercentDiff.String())
	}
}

package calc

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/cardrecon_backend/utils"
	"github.com/shopspring/decimal"
)

func TestCAT_SingleRepayment(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{At: start, Amount: decimal.NewFromInt(-1000)},
		{At: start.AddDate(1, 0, 0), Amount: decimal.NewFromInt(1100)},
	}
	r := CAT(flows)
	if !r.Valid {
		t.Fatalf("expected convergence, got diagnostic %q", r.Diagnostic)
	}
	// periodic rate 10%, annualized (1.1)^11 * 100
	if got := utils.Round2(r.Value); got.String() != "285.31" {
		t.Fatalf("expected 285.31, got %s", got.String())
	}
}

func TestCAT_BreakEvenIsZero(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{
		{At: start, Amount: decimal.NewFromInt(-1000)},
		{At: start.AddDate(0, 6, 0), Amount: decimal.NewFromInt(1000)},
	}
	r := CAT(flows)
	if !r.Valid {
		t.Fatalf("expected convergence, got diagnostic %q", r.Diagnostic)
	}
	// zero rate annualizes to exactly 100%
	if got := utils.Round2(r.Value); got.String() != "100" {
		t.Fatalf("expected 100, got %s", got.String())
	}
}

func TestCAT_DegenerateSeries(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		flows []CashFlow
	}{
		{"empty", nil},
		{"single flow", []CashFlow{{At: start, Amount: decimal.NewFromInt(-1000)}}},
		{"all negative", []CashFlow{
			{At: start, Amount: decimal.NewFromInt(-1000)},
			{At: start.AddDate(0, 1, 0), Amount: decimal.NewFromInt(-500)},
		}},
		{"all positive", []CashFlow{
			{At: start, Amount: decimal.NewFromInt(1000)},
			{At: start.AddDate(0, 1, 0), Amount: decimal.NewFromInt(500)},
		}},
		{"zero then positive", []CashFlow{
			{At: start, Amount: decimal.Zero},
			{At: start.AddDate(0, 1, 0), Amount: decimal.NewFromInt(500)},
		}},
	}
	for _, tc := range cases {
		r := CAT(tc.flows)
		if r.Valid {
			t.Fatalf("%s: expected failure, got value %s", tc.name, r.Value.String())
		}
		if r.Diagnostic == "" {
			t.Fatalf("%s: failure must carry a diagnostic", tc.name)
		}
		if !r.Value.IsZero() {
			t.Fatalf("%s: failed result must zero the value, got %s", tc.name, r.Value.String())
		}
	}
}

func TestCAT_ManyPayments(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	flows := []CashFlow{{At: start, Amount: decimal.NewFromInt(-1200)}}
	for i := 1; i <= 12; i++ {
		flows = append(flows, CashFlow{At: start.AddDate(0, i, 0), Amount: decimal.NewFromInt(110)})
	}
	r := CAT(flows)
	if !r.Valid {
		t.Fatalf("expected convergence on a monthly repayment series, got %q", r.Diagnostic)
	}
	if !r.Value.IsPositive() {
		t.Fatalf("paying 1320 against 1200 implies a positive rate, got %s", r.Value.String())
	}
}

package reports

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/cardrecon_backend/models"
)

func TestReconciliationHeaders_FixedOrder(t *testing.T) {
	headers := ReconciliationHeaders()

	if headers[0] != "AccountId" {
		t.Fatalf("account fields must come first, got %q", headers[0])
	}

	expected := len(accountHeaders) + len(models.MetricOrder)*len(metricHeaders)
	if len(headers) != expected {
		t.Fatalf("expected %d columns, got %d", expected, len(headers))
	}

	// metric blocks follow in MetricOrder, each with its block prefix
	offset := len(accountHeaders)
	for i, code := range models.MetricOrder {
		first := headers[offset+i*len(metricHeaders)]
		if !strings.HasPrefix(first, string(code)+"_") {
			t.Fatalf("block %d must start with %s_, got %q", i, code, first)
		}
		if !strings.HasSuffix(first, "Reported") {
			t.Fatalf("each block must lead with the reported value, got %q", first)
		}
	}
}

func TestRowValues_MatchesHeaderCount(t *testing.T) {
	row := models.ReconciliationRow{AccountId: "7"}
	values := rowValues(&row)
	if len(values) != len(ReconciliationHeaders()) {
		t.Fatalf("row has %d values for %d headers", len(values), len(ReconciliationHeaders()))
	}
}

func TestRowValues_InvalidMetricShowsSentinel(t *testing.T) {
	row := models.ReconciliationRow{AccountId: "7"}
	row.CAT.Valid = false
	row.CAT.Diagnostic = "internal rate of return did not converge"

	values := rowValues(&row)
	catOffset := len(accountHeaders) + (len(models.MetricOrder)-1)*len(metricHeaders)
	if values[catOffset+1] != "N/A" {
		t.Fatalf("failed metric must export N/A for the recomputed value, got %v", values[catOffset+1])
	}
}

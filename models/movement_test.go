package models

import "testing"

func TestInferMovementCode(t *testing.T) {
	cases := []struct {
		description string
		expected    MovementCode
	}{
		{"COMISIÓN POR PENALIZACIÓN DE PAGO TARDÍO", CodePenaltyFee},
		{"comision por penalizacion", CodePenaltyFee},
		{"INTERES SOBRE COMPRA A MESES", CodePurchaseInterest},
		{"IVA SOBRE COMISION", CodeVAT},
		{"PAGO EN SUCURSAL", CodePayment},
		{"COMPRA SUPERMERCADO", CodePurchase},
		{"INTERES ORDINARIO", CodeInterest},
		{"COMISION ANUALIDAD", CodeFee},
		{"AJUSTE MANUAL", CodeOther},
		{"", CodeOther},
	}
	for _, tc := range cases {
		if got := InferMovementCode(tc.description); got != tc.expected {
			t.Fatalf("InferMovementCode(%q) expected %q, got %q", tc.description, tc.expected, got)
		}
	}
}

func TestInferMovementCode_SpecificBeforeGeneric(t *testing.T) {
	// "INTERES SOBRE COMPRA" contains both INTERES and COMPRA; the prefix
	// matcher must win over either generic bucket.
	if got := InferMovementCode("INTERES SOBRE COMPRA"); got != CodePurchaseInterest {
		t.Fatalf("expected %q, got %q", CodePurchaseInterest, got)
	}
	// but a purchase paid with interest mid-description stays a purchase
	if got := InferMovementCode("CARGO INTERES SOBRE COMPRA"); got == CodePurchaseInterest {
		t.Fatalf("prefix matcher must not fire mid-string")
	}
}

package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a single billed transaction on an account. Movements are only
// ever aggregated (sums per code, min/max transaction date), never posted.
type Movement struct {
	ID        int    `gorm:"primary_key" json:"id"`
	AccountId string `gorm:"size:64;index;not null" json:"account_id" validate:"required"`

	TransactionAt time.Time       `gorm:"index" json:"transaction_at" validate:"required"`
	Description   string          `gorm:"size:255" json:"description"`
	BilledAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"billed_amount"`

	// Code is resolved exactly once from Description when the record enters
	// the engine; calculators never re-match description text.
	Code MovementCode `gorm:"size:30;index" json:"code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type codeMatcher struct {
	prefix   bool
	fragment string
	code     MovementCode
}

// Fixed matcher table for the transaction-type taxonomy. Order matters: the
// specific statement lines (penalty fee, purchase interest, VAT on fee) must
// win over the generic buckets they substring-overlap with.
var codeMatchers = []codeMatcher{
	{fragment: "COMISIÓN POR PENALIZACIÓN", code: CodePenaltyFee},
	{fragment: "COMISION POR PENALIZACION", code: CodePenaltyFee},
	{prefix: true, fragment: "INTERES SOBRE COMPRA", code: CodePurchaseInterest},
	{prefix: true, fragment: "IVA SOBRE COMISION", code: CodeVAT},
	{fragment: "PAGO", code: CodePayment},
	{fragment: "COMPRA", code: CodePurchase},
	{fragment: "INTERES", code: CodeInterest},
	{fragment: "COMISION", code: CodeFee},
}

// InferMovementCode resolves a description to its transaction-type code.
func InferMovementCode(description string) MovementCode {
	d := strings.ToUpper(strings.TrimSpace(description))
	for _, m := range codeMatchers {
		if m.prefix {
			if strings.HasPrefix(d, m.fragment) {
				return m.code
			}
			continue
		}
		if strings.Contains(d, m.fragment) {
			return m.code
		}
	}
	return CodeOther
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one statement-cycle snapshot of a credit-card account as the
// source system reported it. Loaded once per reconciliation run and treated
// as immutable; the calculators only ever read from it.
type Account struct {
	ID        int    `gorm:"primary_key" json:"id"`
	AccountId string `gorm:"size:64;uniqueIndex;not null" json:"account_id" validate:"required"`

	Product       string `gorm:"size:100" json:"product"`
	CreditProfile string `gorm:"size:100" json:"credit_profile"`

	CreditLimit    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit_limit"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"closing_balance"`

	CutoffDate time.Time `gorm:"index" json:"cutoff_date" validate:"required"`
	DueDate    time.Time `json:"due_date" validate:"required"`

	// Figures the source system reported alongside the balances; the engine
	// recomputes each of these independently.
	ReportedMinimumPayment    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported_minimum_payment"`
	ReportedNoInterestPayment decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported_no_interest_payment"`
	ReportedPastDueAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported_past_due_amount"`
	ReportedCAT               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reported_cat"`
	ReportedStatus            string          `gorm:"size:50" json:"reported_status"`

	// LoadError carries a loader-side parse or validation failure so the
	// account still reaches the assembler and fails as its own row. Never
	// persisted.
	LoadError string `gorm:"-" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is the active promotional plan on an account. At most one row per
// account id survives loading: the first-encountered row wins and later
// duplicates are dropped (documented policy, not an error).
type Promotion struct {
	ID        int    `gorm:"primary_key" json:"id"`
	AccountId string `gorm:"size:64;uniqueIndex;not null" json:"account_id" validate:"required"`

	Type PromotionType `gorm:"size:30" json:"type"`

	OriginalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"original_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PendingAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"pending_amount"`
	TotalInterest  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_interest"`
	PartialPayment decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"partial_payment"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"interest_rate"`

	Installments int `gorm:"default:0" json:"installments"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
